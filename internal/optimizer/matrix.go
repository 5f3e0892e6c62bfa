package optimizer

import "fmt"

// DistanceMatrix holds pairwise distances in meters between the points of a
// single optimization call. It is built once and never mutated.
type DistanceMatrix struct {
	n int
	d []int
}

// BuildMatrix computes the N×N Haversine distance matrix for points.
// Only the upper triangle is evaluated; the lower triangle mirrors it, which
// keeps the matrix symmetric by construction.
func BuildMatrix(points []Point) (DistanceMatrix, error) {
	n := len(points)
	if n < 1 {
		return DistanceMatrix{}, fmt.Errorf("build matrix: %w", ErrEmptyInput)
	}

	d := make([]int, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := PointDistance(points[i], points[j])
			d[i*n+j] = dist
			d[j*n+i] = dist
		}
	}

	return DistanceMatrix{n: n, d: d}, nil
}

// NewMatrix wraps a square, symmetric table of precomputed distances with a
// zero diagonal. Rows are copied so the caller may reuse its slices.
func NewMatrix(rows [][]int) (DistanceMatrix, error) {
	n := len(rows)
	if n < 1 {
		return DistanceMatrix{}, fmt.Errorf("new matrix: %w", ErrEmptyInput)
	}

	d := make([]int, n*n)
	for i, row := range rows {
		if len(row) != n {
			return DistanceMatrix{}, fmt.Errorf("new matrix: row %d has %d columns, want %d", i, len(row), n)
		}
		for j, v := range row {
			if v < 0 {
				return DistanceMatrix{}, fmt.Errorf("new matrix: negative distance at (%d,%d)", i, j)
			}
			if i == j && v != 0 {
				return DistanceMatrix{}, fmt.Errorf("new matrix: non-zero diagonal at %d", i)
			}
		}
		copy(d[i*n:(i+1)*n], row)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d[i*n+j] != d[j*n+i] {
				return DistanceMatrix{}, fmt.Errorf("new matrix: asymmetric distance between %d and %d", i, j)
			}
		}
	}

	return DistanceMatrix{n: n, d: d}, nil
}

// Len returns the number of points the matrix covers.
func (m DistanceMatrix) Len() int { return m.n }

// At returns the distance from point i to point j.
func (m DistanceMatrix) At(i, j int) int { return m.d[i*m.n+j] }

// RouteDistance sums the edge weights between consecutive stops of route.
func RouteDistance(m DistanceMatrix, route Route) int {
	total := 0
	for i := 1; i < len(route); i++ {
		total += m.At(route[i-1], route[i])
	}
	return total
}
