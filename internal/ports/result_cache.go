package ports

import (
	"context"
	"time"
)

// A previously computed stop order for a given set of stops.
type CachedResult struct {
	StopIDs             []string      `json:"stop_ids"`
	TotalDistanceMeters int           `json:"total_distance_meters"`
	IsExact             bool          `json:"is_exact"`
	Solver              string        `json:"solver"`
	Elapsed             time.Duration `json:"elapsed"`
}

// Optional cache of optimization results keyed by a content fingerprint.
type ResultCache interface {
	// Return the cached result and whether it was present.
	Get(ctx context.Context, key string) (CachedResult, bool, error)
	Put(ctx context.Context, key string, result CachedResult) error
}
