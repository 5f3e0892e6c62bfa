package repositories

import (
	"context"
	"sync"
	"testing"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"

	"github.com/stretchr/testify/require"
)

func memoryTestTrip() *domain.Trip {
	return &domain.Trip{
		TripID: testTripID,
		UserID: testUserID,
		Name:   "Weekend",
		Stops: []*domain.TripStop{
			{StopID: "s2", Place: domain.Place{PlaceID: "food-1"}, Sequence: 2},
			{StopID: "s1", Place: domain.Place{PlaceID: "hotel-1"}, Sequence: 1},
			{StopID: "s3", Place: domain.Place{PlaceID: "todo-1"}, Sequence: 3},
		},
	}
}

func TestMemoryTripRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTripRepository(memoryTestTrip())

	trip, err := repo.GetTrip(ctx, testTripID)
	require.NoError(t, err)
	require.Equal(t, []string{"hotel-1", "food-1", "todo-1"}, stopPlaces(trip))

	// mutating without saving must not leak into the store
	require.NoError(t, trip.Reorder([]string{"todo-1"}))

	again, err := repo.GetTrip(ctx, testTripID)
	require.NoError(t, err)
	require.Equal(t, []string{"hotel-1", "food-1", "todo-1"}, stopPlaces(again))
}

func TestMemoryTripRepositorySaveStopOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTripRepository(memoryTestTrip())

	trip, err := repo.GetTrip(ctx, testTripID)
	require.NoError(t, err)
	require.NoError(t, trip.ApplyOptimizedOrder([]int{0, 2, 1}))
	require.NoError(t, repo.SaveStopOrder(ctx, trip))
	require.False(t, trip.UpdatedAt.IsZero())

	again, err := repo.GetTrip(ctx, testTripID)
	require.NoError(t, err)
	require.True(t, again.IsOptimized)
	require.Equal(t, []string{"hotel-1", "todo-1", "food-1"}, stopPlaces(again))
}

func TestMemoryTripRepositoryNotFound(t *testing.T) {
	repo := NewMemoryTripRepository()

	_, err := repo.GetTrip(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrTripNotFound)

	err = repo.SaveStopOrder(context.Background(), &domain.Trip{TripID: "missing"})
	require.ErrorIs(t, err, ports.ErrTripNotFound)
}

func TestMemoryTripRepositoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTripRepository(memoryTestTrip())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			trip, err := repo.GetTrip(ctx, testTripID)
			if err != nil {
				t.Error(err)
				return
			}
			if i%2 == 0 {
				_ = trip.Reorder([]string{"todo-1"})
			}
			if err := repo.SaveStopOrder(ctx, trip); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	trip, err := repo.GetTrip(ctx, testTripID)
	require.NoError(t, err)
	require.Len(t, trip.Stops, 3)
}
