package optimizer

import "fmt"

// Route is a visiting order expressed as indices into the input points.
// A valid route is a permutation of 0..N-1 starting at the origin.
type Route []int

// Validate reports whether r is a complete permutation of 0..n-1 that starts at origin.
func (r Route) Validate(n, origin int) error {
	if len(r) != n {
		return fmt.Errorf("route: length %d, want %d", len(r), n)
	}
	if n > 0 && r[0] != origin {
		return fmt.Errorf("route: starts at %d, want origin %d", r[0], origin)
	}

	seen := make([]bool, n)
	for pos, idx := range r {
		if idx < 0 || idx >= n {
			return fmt.Errorf("route: index %d at position %d out of range [0,%d)", idx, pos, n)
		}
		if seen[idx] {
			return fmt.Errorf("route: index %d repeated at position %d", idx, pos)
		}
		seen[idx] = true
	}

	return nil
}

// Clone returns a copy of r.
func (r Route) Clone() Route {
	out := make(Route, len(r))
	copy(out, r)
	return out
}
