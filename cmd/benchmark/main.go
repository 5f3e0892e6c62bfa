package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"
	"trip-route-service/internal/config"
	"trip-route-service/internal/optimizer"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

var defaultSizes = []int{5, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 20, 25, 30, 40, 50, 60}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var sizes intList
	flag.Var(&sizes, "sizes", "Place counts to benchmark, comma separated or repeated (default 5..60)")
	trials := flag.Int("trials", 5, "Random trials per place count")
	exactTimeout := flag.Duration("exact-timeout", 10*time.Second, "Time limit for the exact solver")
	heuristicTimeout := flag.Duration("heuristic-timeout", 15*time.Second, "Time limit for the heuristic solver")
	budget := flag.Duration("budget", 0, "Time budget for the combined optimizer (0 uses its default)")
	seed := flag.Uint64("seed", 1, "Seed for the random place generator")
	workers := flag.Int("workers", 1, "Trials run concurrently; keep at 1 for undistorted timings")
	output := flag.String("output", "benchmark_results.csv", "Path to the CSV output file")
	flag.Parse()

	if len(sizes) == 0 {
		sizes = defaultSizes
	}
	if *trials < 1 {
		log.Fatal("trials must be at least 1")
	}

	optCfg, err := config.LoadOptimizer(config.Get("OPTIMIZER_CONFIG", ""))
	if err != nil {
		log.Fatal(err)
	}
	opt, err := optimizer.New(optCfg)
	if err != nil {
		log.Fatal(err)
	}

	logSystemInfo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	rows, err := runTrials(ctx, benchConfig{
		Sizes:            sizes,
		Trials:           *trials,
		Seed:             *seed,
		Workers:          *workers,
		ExactTimeout:     *exactTimeout,
		HeuristicTimeout: *heuristicTimeout,
		Optimizer:        opt,
		OptimizerBudget:  *budget,
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("benchmark finished sizes=%v trials=%d dur=%s", []int(sizes), *trials, time.Since(start).Round(time.Millisecond))

	for _, s := range summarize(rows) {
		log.Printf(
			"n=%d exact_solved=%d exact_timed_out=%d exact_mean=%s heuristic_mean=%s gap=%.2f%%",
			s.N, s.ExactSolved, s.ExactTimedOut, s.MeanExact, s.MeanHeuristic, s.MeanGapPct,
		)
	}

	if err := saveCSV(*output, rows); err != nil {
		log.Fatal(err)
	}
	log.Printf("results saved path=%s rows=%d", *output, len(rows))
}

func saveCSV(path string, rows []row) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save csv: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save csv: %w", err)
	}
	defer f.Close()

	if err := writeCSV(f, rows); err != nil {
		return fmt.Errorf("save csv %q: %w", path, err)
	}
	return f.Close()
}

// System info is best effort; missing fields are logged as unknown.
func logSystemInfo() {
	platform, model, memory := "unknown", "unknown", "unknown"

	if hostStat, err := host.Info(); err == nil {
		platform = fmt.Sprintf("%s %s", hostStat.Platform, hostStat.PlatformVersion)
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		model = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}

	log.Printf("system platform=%q cpu=%q cores=%d memory=%s go=%s", platform, model, runtime.NumCPU(), memory, runtime.Version())
}
