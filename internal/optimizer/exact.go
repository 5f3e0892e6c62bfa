package optimizer

import (
	"fmt"
	"math"
	"time"
)

// MaxExactPoints bounds the exact solver. Its state table grows as
// (N-1)·2^(N-1); beyond this size the table alone outgrows any budget
// the selector would grant, so larger inputs time out immediately.
const MaxExactPoints = 20

// deadlineCheckEvery is the number of DP transitions between clock reads.
const deadlineCheckEvery = 1 << 14

// SolveExact returns the minimum-distance open path that starts at origin and
// visits every point exactly once, using Held-Karp bitmask dynamic programming.
//
// The DP runs over the N-1 non-origin points: cost[S][j] is the cheapest path
// that leaves origin, visits exactly the points in S and ends at j. Subsets are
// filled in increasing numeric order, so every S\{j} is complete before S.
// Ties keep the lowest predecessor index, and the lowest final endpoint.
//
// The solver is all-or-nothing: when timeLimit elapses it returns ErrTimeout
// and no route.
func SolveExact(m DistanceMatrix, origin int, timeLimit time.Duration) (Route, error) {
	n := m.Len()
	if n < 2 {
		return nil, fmt.Errorf("solve exact: %d points: %w", n, ErrInfeasibleInput)
	}
	if origin < 0 || origin >= n {
		return nil, fmt.Errorf("solve exact: origin %d out of range [0,%d): %w", origin, n, ErrInfeasibleInput)
	}
	if n > MaxExactPoints {
		return nil, fmt.Errorf("solve exact: %d points exceeds limit of %d: %w", n, MaxExactPoints, ErrTimeout)
	}
	if timeLimit <= 0 {
		return nil, fmt.Errorf("solve exact: no time budget: %w", ErrTimeout)
	}
	deadline := time.Now().Add(timeLimit)

	// Subset bit b stands for nodes[b].
	nodes := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != origin {
			nodes = append(nodes, i)
		}
	}
	k := len(nodes)
	full := 1<<k - 1

	cost := make([]int, (full+1)*k)
	prev := make([]int8, (full+1)*k)

	work := 0
	for set := 1; set <= full; set++ {
		if work >= deadlineCheckEvery {
			work = 0
			if !time.Now().Before(deadline) {
				return nil, fmt.Errorf("solve exact: %d points after %v: %w", n, timeLimit, ErrTimeout)
			}
		}

		for j := 0; j < k; j++ {
			bit := 1 << j
			if set&bit == 0 {
				continue
			}

			at := set*k + j
			rest := set ^ bit
			if rest == 0 {
				cost[at] = m.At(origin, nodes[j])
				prev[at] = -1
				continue
			}

			best, from := math.MaxInt, -1
			for i := 0; i < k; i++ {
				if rest&(1<<i) == 0 {
					continue
				}
				if c := cost[rest*k+i] + m.At(nodes[i], nodes[j]); c < best {
					best, from = c, i
				}
			}
			cost[at] = best
			prev[at] = int8(from)
			work += k
		}
	}

	last := 0
	for j := 1; j < k; j++ {
		if cost[full*k+j] < cost[full*k+last] {
			last = j
		}
	}

	route := make(Route, n)
	route[0] = origin
	set := full
	for pos := n - 1; pos >= 1; pos-- {
		route[pos] = nodes[last]
		from := int(prev[set*k+last])
		set ^= 1 << last
		last = from
	}

	return route, nil
}
