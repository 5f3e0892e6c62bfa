package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"time"
	"trip-route-service/internal/optimizer"

	"golang.org/x/sync/errgroup"
)

// Random places are drawn from a box around Da Nang.
const (
	minLat, maxLat = 15.9, 16.2
	minLon, maxLon = 108.1, 108.4
)

const (
	algoExact     = "exact"
	algoHeuristic = "heuristic"
	algoOptimizer = "optimizer"
)

type benchConfig struct {
	Sizes            []int
	Trials           int
	Seed             uint64
	Workers          int
	ExactTimeout     time.Duration
	HeuristicTimeout time.Duration
	Optimizer        *optimizer.Optimizer
	// Budget handed to Optimizer.Optimize.
	OptimizerBudget time.Duration
}

// One measurement. Distance is meaningless when TimedOut is set.
type row struct {
	N         int
	Trial     int
	Algorithm string
	Elapsed   time.Duration
	Distance  int
	TimedOut  bool
	Solver    string
}

func randomPoints(rng *rand.Rand, n int) []optimizer.Point {
	pts := make([]optimizer.Point, n)
	for i := range pts {
		pts[i] = optimizer.Point{
			ID:  strconv.Itoa(i),
			Lat: minLat + rng.Float64()*(maxLat-minLat),
			Lon: minLon + rng.Float64()*(maxLon-minLon),
		}
	}
	return pts
}

// Each (size, trial) pair gets its own generator so results do not depend
// on scheduling order.
func trialRand(seed uint64, n, trial int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(n)<<32|uint64(trial)))
}

// runTrials benchmarks every size cfg.Trials times and returns rows ordered
// by size, trial and algorithm.
func runTrials(ctx context.Context, cfg benchConfig) ([]row, error) {
	type job struct{ n, trial int }

	var jobs []job
	for _, n := range cfg.Sizes {
		for t := 1; t <= cfg.Trials; t++ {
			jobs = append(jobs, job{n, t})
		}
	}

	results := make([][]row, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := runTrial(ctx, cfg, j.n, j.trial)
			if err != nil {
				return fmt.Errorf("size=%d trial=%d: %w", j.n, j.trial, err)
			}
			results[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]row, 0, len(jobs)*3)
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

func runTrial(ctx context.Context, cfg benchConfig, n, trial int) ([]row, error) {
	pts := randomPoints(trialRand(cfg.Seed, n, trial), n)

	m, err := optimizer.BuildMatrix(pts)
	if err != nil {
		return nil, err
	}

	rows := make([]row, 0, 3)

	start := time.Now()
	route, err := optimizer.SolveExact(m, 0, cfg.ExactTimeout)
	exact := row{N: n, Trial: trial, Algorithm: algoExact, Elapsed: time.Since(start), Solver: optimizer.SolverExact}
	switch {
	case errors.Is(err, optimizer.ErrTimeout):
		exact.TimedOut = true
	case err != nil:
		return nil, fmt.Errorf("exact: %w", err)
	default:
		exact.Distance = optimizer.RouteDistance(m, route)
	}
	rows = append(rows, exact)

	start = time.Now()
	route, err = optimizer.SolveHeuristic(m, 0, cfg.HeuristicTimeout)
	if err != nil {
		return nil, fmt.Errorf("heuristic: %w", err)
	}
	rows = append(rows, row{
		N:         n,
		Trial:     trial,
		Algorithm: algoHeuristic,
		Elapsed:   time.Since(start),
		Distance:  optimizer.RouteDistance(m, route),
		Solver:    optimizer.SolverHeuristic,
	})

	if cfg.Optimizer != nil {
		res, err := cfg.Optimizer.Optimize(ctx, pts, 0, cfg.OptimizerBudget)
		if err != nil {
			return nil, fmt.Errorf("optimizer: %w", err)
		}
		rows = append(rows, row{
			N:         n,
			Trial:     trial,
			Algorithm: algoOptimizer,
			Elapsed:   res.Elapsed,
			Distance:  res.TotalDistance,
			Solver:    res.Solver,
		})
	}

	return rows, nil
}

var csvHeader = []string{"n_places", "trial", "algorithm", "solver", "execution_time_s", "total_distance_m", "timed_out"}

func writeCSV(w io.Writer, rows []row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range rows {
		dist := ""
		if !r.TimedOut {
			dist = strconv.Itoa(r.Distance)
		}
		rec := []string{
			strconv.Itoa(r.N),
			strconv.Itoa(r.Trial),
			r.Algorithm,
			r.Solver,
			strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 6, 64),
			dist,
			strconv.FormatBool(r.TimedOut),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type summary struct {
	N             int
	ExactSolved   int
	ExactTimedOut int
	MeanExact     time.Duration
	MeanHeuristic time.Duration
	// Mean heuristic excess over exact, in percent, on trials both solved.
	MeanGapPct float64
}

func summarize(rows []row) []summary {
	type acc struct {
		summary
		exactTime, heurTime time.Duration
		heurCount           int
		gapSum              float64
		gapCount            int
	}

	byN := map[int]*acc{}
	var order []int
	exactDist := map[[2]int]int{}

	for _, r := range rows {
		a, ok := byN[r.N]
		if !ok {
			a = &acc{summary: summary{N: r.N}}
			byN[r.N] = a
			order = append(order, r.N)
		}
		switch r.Algorithm {
		case algoExact:
			if r.TimedOut {
				a.ExactTimedOut++
				continue
			}
			a.ExactSolved++
			a.exactTime += r.Elapsed
			exactDist[[2]int{r.N, r.Trial}] = r.Distance
		case algoHeuristic:
			a.heurCount++
			a.heurTime += r.Elapsed
		}
	}

	for _, r := range rows {
		if r.Algorithm != algoHeuristic {
			continue
		}
		best, ok := exactDist[[2]int{r.N, r.Trial}]
		if !ok || best == 0 {
			continue
		}
		a := byN[r.N]
		a.gapSum += 100 * float64(r.Distance-best) / float64(best)
		a.gapCount++
	}

	out := make([]summary, 0, len(order))
	for _, n := range order {
		a := byN[n]
		if a.ExactSolved > 0 {
			a.MeanExact = a.exactTime / time.Duration(a.ExactSolved)
		}
		if a.heurCount > 0 {
			a.MeanHeuristic = a.heurTime / time.Duration(a.heurCount)
		}
		if a.gapCount > 0 {
			a.MeanGapPct = a.gapSum / float64(a.gapCount)
		}
		out = append(out, a.summary)
	}
	return out
}
