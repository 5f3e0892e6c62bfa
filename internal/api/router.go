package api

import (
	"context"
	"net/http"
	"trip-route-service/internal/api/handlers"
	"trip-route-service/internal/metrics"
	"trip-route-service/internal/optimizer"
	"trip-route-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type Deps struct {
	Repo      ports.TripRepository
	Cache     ports.ResultCache // optional
	Optimizer *optimizer.Optimizer

	// Shared limiter for optimize requests; nil disables limiting.
	OptimizeLimiter *rate.Limiter

	HealthChecks map[string]func(ctx context.Context) error
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Checks: deps.HealthChecks}
	tripHandler := &handlers.TripHandler{
		Repo:      deps.Repo,
		Cache:     deps.Cache,
		Optimizer: deps.Optimizer,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/trips/{tripID}", tripHandler.Get)
	mux.HandleFunc("/trips/{tripID}/optimize", rateLimit(deps.OptimizeLimiter, tripHandler.Optimize))
	mux.HandleFunc("/trips/{tripID}/reorder", tripHandler.Reorder)
	mux.HandleFunc("/trips/{tripID}/places", tripHandler.AddPlace)
	mux.HandleFunc("/trips/{tripID}/places/{placeID}", tripHandler.RemovePlace)

	return requestIDMiddleware(loggingMiddleware(mux))
}
