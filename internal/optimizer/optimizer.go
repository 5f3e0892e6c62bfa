package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Solver names reported in Result.Solver.
const (
	SolverTrivial   = "trivial"
	SolverExact     = "held-karp"
	SolverHeuristic = "nearest-neighbor+2-opt"
)

// Config controls how Optimize chooses between the exact and heuristic solvers.
type Config struct {
	// ExactThreshold is the largest point count attempted with the exact solver.
	// Zero disables the exact solver.
	ExactThreshold int

	// ExactBudgetFraction is the share of the time budget granted to the exact solver.
	ExactBudgetFraction float64

	// DefaultTimeBudget applies when the caller passes a non-positive budget.
	DefaultTimeBudget time.Duration
}

// DefaultConfig returns the selector settings used by the service.
func DefaultConfig() Config {
	return Config{
		ExactThreshold:      13,
		ExactBudgetFraction: 0.7,
		DefaultTimeBudget:   3 * time.Second,
	}
}

// Validate checks that c describes a usable selection policy.
func (c Config) Validate() error {
	if c.ExactThreshold < 0 {
		return fmt.Errorf("optimizer config: exact threshold %d must not be negative", c.ExactThreshold)
	}
	if c.ExactBudgetFraction <= 0 || c.ExactBudgetFraction > 1 {
		return fmt.Errorf("optimizer config: exact budget fraction %v must be in (0,1]", c.ExactBudgetFraction)
	}
	if c.DefaultTimeBudget <= 0 {
		return fmt.Errorf("optimizer config: default time budget %v must be positive", c.DefaultTimeBudget)
	}
	return nil
}

// Result is the outcome of one Optimize call.
type Result struct {
	Route         Route
	Order         []string // point IDs in route order
	TotalDistance int      // meters
	IsExact       bool
	Solver        string
	ExactTimedOut bool
	Elapsed       time.Duration
}

// Optimizer selects and runs a solver for a set of points.
// It holds no mutable state and is safe for concurrent use.
type Optimizer struct {
	cfg Config
}

func New(cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Optimizer{cfg: cfg}, nil
}

// Config returns the selection policy in effect.
func (o *Optimizer) Config() Config { return o.cfg }

// Optimize orders points starting at origin to approximately minimise total
// distance within timeBudget.
//
// Inputs of at most ExactThreshold points are first given to the exact solver
// with ExactBudgetFraction of the budget. If it times out, or the input is
// larger, the heuristic runs with whatever budget remains. A context deadline
// earlier than the budget shortens it.
//
// Only ErrEmptyInput and ErrInfeasibleInput (bad origin) are returned;
// solver timeouts are absorbed by the fallback.
func (o *Optimizer) Optimize(ctx context.Context, points []Point, origin int, timeBudget time.Duration) (Result, error) {
	start := time.Now()

	n := len(points)
	if n == 0 {
		return Result{}, fmt.Errorf("optimize: %w", ErrEmptyInput)
	}
	if origin < 0 || origin >= n {
		return Result{}, fmt.Errorf("optimize: origin %d out of range [0,%d): %w", origin, n, ErrInfeasibleInput)
	}

	if n == 1 {
		return o.finish(points, origin, Route{origin}, 0, SolverTrivial, true, false, start)
	}

	budget := o.budget(ctx, timeBudget, start)

	m, err := BuildMatrix(points)
	if err != nil {
		return Result{}, fmt.Errorf("optimize: %w", err)
	}

	timedOut := false
	if n <= o.cfg.ExactThreshold {
		exactBudget := time.Duration(float64(budget) * o.cfg.ExactBudgetFraction)

		route, err := SolveExact(m, origin, exactBudget)
		switch {
		case err == nil:
			return o.finish(points, origin, route, RouteDistance(m, route), SolverExact, true, false, start)
		case errors.Is(err, ErrTimeout):
			timedOut = true
		default:
			return Result{}, fmt.Errorf("optimize: %w", err)
		}
	}

	route, err := SolveHeuristic(m, origin, budget-time.Since(start))
	if err != nil {
		return Result{}, fmt.Errorf("optimize: %w", err)
	}

	return o.finish(points, origin, route, RouteDistance(m, route), SolverHeuristic, false, timedOut, start)
}

func (o *Optimizer) budget(ctx context.Context, requested time.Duration, start time.Time) time.Duration {
	budget := requested
	if budget <= 0 {
		budget = o.cfg.DefaultTimeBudget
	}

	if dl, ok := ctx.Deadline(); ok {
		if left := dl.Sub(start); left < budget {
			budget = max(left, 0)
		}
	}

	return budget
}

func (o *Optimizer) finish(
	points []Point,
	origin int,
	route Route,
	total int,
	solver string,
	exact bool,
	timedOut bool,
	start time.Time,
) (Result, error) {
	if err := route.Validate(len(points), origin); err != nil {
		return Result{}, fmt.Errorf("optimize: %s produced an invalid route: %w", solver, err)
	}

	order := make([]string, len(route))
	for i, idx := range route {
		order[i] = points[idx].ID
	}

	return Result{
		Route:         route,
		Order:         order,
		TotalDistance: total,
		IsExact:       exact,
		Solver:        solver,
		ExactTimedOut: timedOut,
		Elapsed:       time.Since(start),
	}, nil
}
