package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"trip-route-service/internal/adapters/repositories"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/optimizer"
	"trip-route-service/internal/ports"

	"github.com/stretchr/testify/require"
)

const lineTripID = "3d6f0a1e-2b4c-4d8e-9f10-1a2b3c4d5e6f"

// Stops along the equator, stored out of order. The shortest open path from
// A visits them by increasing longitude: A, C, D, B.
func lineTrip() *domain.Trip {
	stop := func(id, place string, lon float64, seq int) *domain.TripStop {
		return &domain.TripStop{
			StopID:   id,
			Place:    domain.Place{PlaceID: place, Name: place, Type: domain.PlaceThingToDo, Location: domain.Coordinates{Lat: 0, Lon: lon}},
			Sequence: seq,
		}
	}
	return &domain.Trip{
		TripID: lineTripID,
		UserID: "u1",
		Name:   "Line",
		Stops: []*domain.TripStop{
			stop("s-a", "A", 0.00, 1),
			stop("s-b", "B", 0.03, 2),
			stop("s-c", "C", 0.01, 3),
			stop("s-d", "D", 0.02, 4),
		},
	}
}

func places(trip *domain.Trip) []string {
	out := make([]string, 0, len(trip.Stops))
	for _, s := range trip.Stops {
		out = append(out, s.Place.PlaceID)
	}
	return out
}

func pathMeters(trip *domain.Trip) int {
	total := 0
	for i := 1; i < len(trip.Stops); i++ {
		a, b := trip.Stops[i-1].Place.Location, trip.Stops[i].Place.Location
		total += optimizer.Distance(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return total
}

func newOptimizer(t *testing.T) *optimizer.Optimizer {
	t.Helper()
	opt, err := optimizer.New(optimizer.DefaultConfig())
	require.NoError(t, err)
	return opt
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]ports.CachedResult
	getErr  error
	gets    int
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]ports.CachedResult{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (ports.CachedResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return ports.CachedResult{}, false, c.getErr
	}
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *fakeCache) Put(_ context.Context, key string, r ports.CachedResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.entries[key] = r
	return nil
}

func TestOptimizeTrip(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryTripRepository(lineTrip())

	route, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID}, repo, nil, newOptimizer(t))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C", "D", "B"}, places(route.Trip))
	require.True(t, route.Trip.IsOptimized)
	require.True(t, route.IsExact)
	require.Equal(t, optimizer.SolverExact, route.Solver)
	require.False(t, route.Cached)
	require.NotNil(t, route.TotalDistanceMeters)
	require.Equal(t, pathMeters(route.Trip), *route.TotalDistanceMeters)

	// persisted
	stored, err := repo.GetTrip(ctx, lineTripID)
	require.NoError(t, err)
	require.True(t, stored.IsOptimized)
	require.Equal(t, []string{"A", "C", "D", "B"}, places(stored))
	for i, s := range stored.Stops {
		require.Equal(t, i+1, s.Sequence)
	}
}

func TestOptimizeTripErrors(t *testing.T) {
	ctx := context.Background()

	short := lineTrip()
	short.Stops = short.Stops[:1]
	repo := repositories.NewMemoryTripRepository(short)

	_, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID}, repo, nil, newOptimizer(t))
	require.ErrorIs(t, err, ErrTooFewStops)

	_, err = OptimizeTrip(ctx, OptimizeTripRequest{TripID: "missing"}, repo, nil, newOptimizer(t))
	require.ErrorIs(t, err, ports.ErrTripNotFound)
}

func TestOptimizeTripUsesCache(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryTripRepository(lineTrip())
	cache := newFakeCache()
	opt := newOptimizer(t)

	first, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID}, repo, cache, opt)
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Equal(t, 1, cache.puts)

	// a manual reorder keeps the same origin and stop set, so the key matches
	_, err = ReorderTrip(ctx, lineTripID, []string{"A", "B", "D", "C"}, repo)
	require.NoError(t, err)

	second, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID}, repo, cache, opt)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, []string{"A", "C", "D", "B"}, places(second.Trip))
	require.Equal(t, *first.TotalDistanceMeters, *second.TotalDistanceMeters)
	require.Equal(t, first.Solver, second.Solver)
	require.Equal(t, 1, cache.puts)

	stored, err := repo.GetTrip(ctx, lineTripID)
	require.NoError(t, err)
	require.True(t, stored.IsOptimized)
}

func TestOptimizeTripIgnoresBadCacheEntries(t *testing.T) {
	ctx := context.Background()
	opt := newOptimizer(t)

	t.Run("stale entry", func(t *testing.T) {
		repo := repositories.NewMemoryTripRepository(lineTrip())
		cache := newFakeCache()
		cache.entries[fingerprint(tripPoints(lineTrip()))] = ports.CachedResult{StopIDs: []string{"s-a", "gone"}}

		route, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID}, repo, cache, opt)
		require.NoError(t, err)
		require.False(t, route.Cached)
		require.Equal(t, []string{"A", "C", "D", "B"}, places(route.Trip))
	})

	t.Run("cache error", func(t *testing.T) {
		repo := repositories.NewMemoryTripRepository(lineTrip())
		cache := newFakeCache()
		cache.getErr = errors.New("connection refused")

		route, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID}, repo, cache, opt)
		require.NoError(t, err)
		require.False(t, route.Cached)
		require.Equal(t, 1, cache.gets)
	})
}

// A trip with exactly the default exact threshold of stops.
func thirteenStopTrip() *domain.Trip {
	trip := &domain.Trip{TripID: lineTripID, UserID: "u1", Name: "Thirteen"}
	for i := 0; i < 13; i++ {
		lat := 0.0
		if i%2 == 1 {
			lat = 0.004
		}
		trip.Stops = append(trip.Stops, &domain.TripStop{
			StopID:   fmt.Sprintf("s-%02d", i),
			Place:    domain.Place{PlaceID: fmt.Sprintf("P%02d", i), Location: domain.Coordinates{Lat: lat, Lon: float64((i*7)%13) * 0.01}},
			Sequence: i + 1,
		})
	}
	return trip
}

func TestOptimizeTripDoesNotServeTimedOutResultToExactSolve(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryTripRepository(thirteenStopTrip())
	cache := newFakeCache()
	opt := newOptimizer(t)

	first, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID, TimeBudget: time.Microsecond}, repo, cache, opt)
	require.NoError(t, err)
	require.False(t, first.Cached)
	if !first.IsExact {
		require.Equal(t, 0, cache.puts)
	}

	second, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID}, repo, cache, opt)
	require.NoError(t, err)
	require.True(t, second.IsExact)
	require.Equal(t, optimizer.SolverExact, second.Solver)
	require.Equal(t, first.IsExact, second.Cached)
	require.Equal(t, 1, cache.puts)
}

func TestOptimizeTripSkipsHeuristicEntryForSmallTrip(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryTripRepository(lineTrip())
	cache := newFakeCache()
	cache.entries[fingerprint(tripPoints(lineTrip()))] = ports.CachedResult{
		StopIDs:             []string{"s-a", "s-b", "s-c", "s-d"},
		TotalDistanceMeters: 1,
		Solver:              optimizer.SolverHeuristic,
	}

	route, err := OptimizeTrip(ctx, OptimizeTripRequest{TripID: lineTripID}, repo, cache, newOptimizer(t))
	require.NoError(t, err)
	require.False(t, route.Cached)
	require.True(t, route.IsExact)
	require.Equal(t, []string{"A", "C", "D", "B"}, places(route.Trip))

	// the exact result replaces the heuristic entry
	require.Equal(t, 1, cache.puts)
	require.True(t, cache.entries[fingerprint(tripPoints(lineTrip()))].IsExact)
}

func TestFingerprint(t *testing.T) {
	pts := tripPoints(lineTrip())

	shuffled := append([]optimizer.Point{pts[0]}, pts[3], pts[1], pts[2])
	require.Equal(t, fingerprint(pts), fingerprint(shuffled))

	newOrigin := append([]optimizer.Point{pts[1], pts[0]}, pts[2:]...)
	require.NotEqual(t, fingerprint(pts), fingerprint(newOrigin))

	moved := append([]optimizer.Point(nil), pts...)
	moved[2].Lat += 0.001
	require.NotEqual(t, fingerprint(pts), fingerprint(moved))
}
