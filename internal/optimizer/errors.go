package optimizer

import "errors"

var (
	// ErrEmptyInput is returned when no points are supplied.
	ErrEmptyInput = errors.New("optimizer: empty input")

	// ErrInfeasibleInput is returned when a solver cannot order the input,
	// either because there are too few points or the origin index is out of range.
	ErrInfeasibleInput = errors.New("optimizer: infeasible input")

	// ErrTimeout is returned by the exact solver when its deadline elapses.
	// No partial route accompanies it.
	ErrTimeout = errors.New("optimizer: exact solver timed out")
)
