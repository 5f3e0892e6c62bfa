package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/metrics"
	"trip-route-service/internal/optimizer"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

var ErrTooFewStops = errors.New("trip must have at least 2 places to optimize")

type OptimizeTripRequest struct {
	TripID string
	// Zero selects the optimizer's default budget.
	TimeBudget time.Duration
}

// OptimizeTrip reorders a trip's stops to approximately minimise total travel
// distance and persists the new sequence numbers.
//
// The first stop in the current order is the fixed origin. When a result cache
// is supplied, a previous result for the same origin and stop set is reused
// instead of running the optimizer again. Only results that did not lose the
// exact solver to its time budget are cached, and a heuristic entry is never
// served for a trip small enough to be solved exactly.
func OptimizeTrip(
	ctx context.Context,
	req OptimizeTripRequest,
	repo ports.TripRepository,
	cache ports.ResultCache,
	opt *optimizer.Optimizer,
) (_ *domain.TripRoute, err error) {
	defer obs.Time(ctx, "services.OptimizeTrip")(&err)

	trip, err := repo.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, fmt.Errorf("optimize trip: %w", err)
	}

	if len(trip.Stops) < 2 {
		return nil, fmt.Errorf("optimize trip %s: %d places: %w", trip.TripID, len(trip.Stops), ErrTooFewStops)
	}

	points := tripPoints(trip)
	key := fingerprint(points)

	if cache != nil {
		exactEligible := len(points) <= opt.Config().ExactThreshold
		route, ok := applyCached(ctx, cache, key, trip, exactEligible)
		if ok {
			if err := repo.SaveStopOrder(ctx, trip); err != nil {
				return nil, fmt.Errorf("optimize trip %s: save stop order: %w", trip.TripID, err)
			}
			return route, nil
		}
	}

	res, err := opt.Optimize(ctx, points, 0, req.TimeBudget)
	if err != nil {
		return nil, fmt.Errorf("optimize trip %s: %w", trip.TripID, err)
	}
	metrics.ObserveOptimization(res.Solver, res.ExactTimedOut, res.Elapsed)

	if err := trip.ApplyOptimizedOrder(res.Route); err != nil {
		return nil, fmt.Errorf("optimize trip %s: %w", trip.TripID, err)
	}

	if err := repo.SaveStopOrder(ctx, trip); err != nil {
		return nil, fmt.Errorf("optimize trip %s: save stop order: %w", trip.TripID, err)
	}

	log.Printf(
		"trip optimized trip_id=%s points=%d solver=%s exact=%t exact_timed_out=%t dist=%dm dur=%dms",
		trip.TripID, len(points), res.Solver, res.IsExact, res.ExactTimedOut, res.TotalDistance, res.Elapsed.Milliseconds(),
	)

	if cache != nil && !res.ExactTimedOut {
		cached := ports.CachedResult{
			StopIDs:             res.Order,
			TotalDistanceMeters: res.TotalDistance,
			IsExact:             res.IsExact,
			Solver:              res.Solver,
			Elapsed:             res.Elapsed,
		}
		if err := cache.Put(ctx, key, cached); err != nil {
			log.Printf("result cache write failed: trip_id=%s err=%v", trip.TripID, err)
		}
	}

	total := res.TotalDistance
	return &domain.TripRoute{
		Trip:                trip,
		TotalDistanceMeters: &total,
		IsExact:             res.IsExact,
		Solver:              res.Solver,
		Elapsed:             res.Elapsed,
	}, nil
}

// applyCached reorders trip from a cached result. A cache error, a result
// that no longer matches the trip's stops, or a heuristic result when
// exactEligible is set counts as a miss.
func applyCached(ctx context.Context, cache ports.ResultCache, key string, trip *domain.Trip, exactEligible bool) (*domain.TripRoute, bool) {
	cached, ok, err := cache.Get(ctx, key)
	if err != nil {
		log.Printf("result cache read failed: trip_id=%s err=%v", trip.TripID, err)
		metrics.ResultCacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	if !ok {
		metrics.ResultCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if exactEligible && !cached.IsExact {
		metrics.ResultCacheLookups.WithLabelValues("inexact").Inc()
		return nil, false
	}

	index := make(map[string]int, len(trip.Stops))
	for i, s := range trip.Stops {
		index[s.StopID] = i
	}

	order := make([]int, 0, len(cached.StopIDs))
	for _, id := range cached.StopIDs {
		i, found := index[id]
		if !found {
			metrics.ResultCacheLookups.WithLabelValues("stale").Inc()
			return nil, false
		}
		order = append(order, i)
	}

	if err := trip.ApplyOptimizedOrder(order); err != nil {
		log.Printf("result cache entry rejected: trip_id=%s err=%v", trip.TripID, err)
		metrics.ResultCacheLookups.WithLabelValues("stale").Inc()
		return nil, false
	}
	metrics.ResultCacheLookups.WithLabelValues("hit").Inc()

	total := cached.TotalDistanceMeters
	return &domain.TripRoute{
		Trip:                trip,
		TotalDistanceMeters: &total,
		IsExact:             cached.IsExact,
		Solver:              cached.Solver,
		Elapsed:             cached.Elapsed,
		Cached:              true,
	}, true
}

func tripPoints(trip *domain.Trip) []optimizer.Point {
	points := make([]optimizer.Point, 0, len(trip.Stops))
	for _, s := range trip.Stops {
		points = append(points, optimizer.Point{
			ID:  s.StopID,
			Lat: s.Place.Location.Lat,
			Lon: s.Place.Location.Lon,
		})
	}
	return points
}

// fingerprint identifies an optimization input independent of the order of
// the non-origin stops: the origin first, then the rest sorted by id.
func fingerprint(points []optimizer.Point) string {
	rest := slices.Clone(points[1:])
	slices.SortFunc(rest, func(a, b optimizer.Point) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	h := sha256.New()
	for _, p := range append([]optimizer.Point{points[0]}, rest...) {
		h.Write([]byte(p.ID))
		h.Write([]byte{0})
		h.Write(strconv.AppendFloat(nil, p.Lat, 'g', -1, 64))
		h.Write([]byte{0})
		h.Write(strconv.AppendFloat(nil, p.Lon, 'g', -1, 64))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
