package optimizer

import (
	"fmt"
	"time"
)

// SolveHeuristic builds a route with nearest-neighbour construction and then
// improves it with 2-opt until no improving move remains or timeLimit elapses.
// For valid input it always returns a complete route; only a malformed matrix
// or origin yields an error.
func SolveHeuristic(m DistanceMatrix, origin int, timeLimit time.Duration) (Route, error) {
	deadline := time.Now().Add(timeLimit)

	n := m.Len()
	if n < 1 {
		return nil, fmt.Errorf("solve heuristic: %w", ErrEmptyInput)
	}
	if origin < 0 || origin >= n {
		return nil, fmt.Errorf("solve heuristic: origin %d out of range [0,%d): %w", origin, n, ErrInfeasibleInput)
	}

	return TwoOpt(m, NearestNeighbor(m, origin), deadline), nil
}

// NearestNeighbor greedily extends the path from origin to the closest
// unvisited point. Equal distances resolve to the lowest index.
func NearestNeighbor(m DistanceMatrix, origin int) Route {
	n := m.Len()
	visited := make([]bool, n)
	route := make(Route, 0, n)

	cur := origin
	visited[cur] = true
	route = append(route, cur)

	for len(route) < n {
		next := -1
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if next < 0 || m.At(cur, j) < m.At(cur, next) {
				next = j
			}
		}

		visited[next] = true
		route = append(route, next)
		cur = next
	}

	return route
}

// TwoOpt applies best-improvement 2-opt to an open path. Each pass scans every
// segment [i..j] with 1 <= i < j <= N-1 and reverses the one with the largest
// strict gain; among equal gains the first in scan order (lowest i, then j)
// wins. Position 0 never moves. The deadline is checked between passes and the
// best route so far is returned when it passes.
//
// Reversal leaves the inner segment's length unchanged only for symmetric
// matrices, which BuildMatrix and NewMatrix guarantee.
func TwoOpt(m DistanceMatrix, route Route, deadline time.Time) Route {
	cur := route.Clone()
	n := len(cur)
	if n < 3 {
		return cur
	}

	for time.Now().Before(deadline) {
		bestGain, bi, bj := 0, -1, -1

		for i := 1; i < n-1; i++ {
			a, b := cur[i-1], cur[i]
			ab := m.At(a, b)

			for j := i + 1; j < n; j++ {
				c := cur[j]
				delta := m.At(a, c) - ab
				// The path is open: reversing a suffix replaces a single edge.
				if j+1 < n {
					d := cur[j+1]
					delta += m.At(b, d) - m.At(c, d)
				}

				if delta < bestGain {
					bestGain, bi, bj = delta, i, j
				}
			}
		}

		if bi < 0 {
			break
		}
		reverse(cur[bi : bj+1])
	}

	return cur
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
