package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// Optimizations counts optimizer runs by solver and whether the exact solver timed out.
	Optimizations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trip_optimizations_total", Help: "Trip optimizations by solver."},
		[]string{"solver", "exact_timed_out"},
	)
	// OptimizationDuration tracks optimizer wall time in seconds.
	OptimizationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "trip_optimization_duration_seconds", Help: "Optimizer wall time in seconds.", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10}},
		[]string{"solver"},
	)
	// ResultCacheLookups counts result cache hits and misses.
	ResultCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trip_result_cache_lookups_total", Help: "Optimization result cache lookups."},
		[]string{"outcome"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Optimizations)
		Registry.MustRegister(OptimizationDuration)
		Registry.MustRegister(ResultCacheLookups)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// ObserveOptimization records one optimizer run.
func ObserveOptimization(solver string, exactTimedOut bool, elapsed time.Duration) {
	timedOut := "false"
	if exactTimedOut {
		timedOut = "true"
	}
	Optimizations.WithLabelValues(solver, timedOut).Inc()
	OptimizationDuration.WithLabelValues(solver).Observe(elapsed.Seconds())
}
