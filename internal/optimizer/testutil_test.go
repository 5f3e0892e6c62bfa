package optimizer

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Da Nang bounding box, matching the benchmark tool.
const (
	minLat, maxLat = 15.9, 16.2
	minLon, maxLon = 108.1, 108.4
)

func randomPoints(rng *rand.Rand, n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			ID:  fmt.Sprintf("p%d", i),
			Lat: minLat + rng.Float64()*(maxLat-minLat),
			Lon: minLon + rng.Float64()*(maxLon-minLon),
		}
	}
	return pts
}

// bruteForce enumerates every ordering of the non-origin points.
func bruteForce(m DistanceMatrix, origin int) int {
	rest := make([]int, 0, m.Len()-1)
	for i := 0; i < m.Len(); i++ {
		if i != origin {
			rest = append(rest, i)
		}
	}

	best := -1
	var permute func(k int)
	permute = func(k int) {
		if k == len(rest) {
			route := append(Route{origin}, rest...)
			if d := RouteDistance(m, route); best < 0 || d < best {
				best = d
			}
			return
		}
		for i := k; i < len(rest); i++ {
			rest[k], rest[i] = rest[i], rest[k]
			permute(k + 1)
			rest[k], rest[i] = rest[i], rest[k]
		}
	}
	permute(0)

	return best
}

func squarePoints() []Point {
	return []Point{
		{ID: "sw", Lat: 0, Lon: 0},
		{ID: "se", Lat: 0, Lon: 1},
		{ID: "ne", Lat: 1, Lon: 1},
		{ID: "nw", Lat: 1, Lon: 0},
	}
}

func mustMatrix(t *testing.T, pts []Point) DistanceMatrix {
	t.Helper()
	m, err := BuildMatrix(pts)
	require.NoError(t, err)
	return m
}
