package services

import (
	"context"
	"fmt"
	"log"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/optimizer"
	"trip-route-service/internal/ports"

	"github.com/google/uuid"
)

// GetTripRoute loads a trip in its current order. Total distance is only
// reported for optimized trips with at least two stops.
func GetTripRoute(ctx context.Context, tripID string, repo ports.TripRepository) (*domain.TripRoute, error) {
	trip, err := repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("get trip route: %w", err)
	}

	route := &domain.TripRoute{Trip: trip}
	if !trip.IsOptimized || len(trip.Stops) < 2 {
		return route, nil
	}

	m, err := optimizer.BuildMatrix(tripPoints(trip))
	if err != nil {
		return nil, fmt.Errorf("get trip route %s: %w", trip.TripID, err)
	}

	identity := make(optimizer.Route, len(trip.Stops))
	for i := range identity {
		identity[i] = i
	}
	total := optimizer.RouteDistance(m, identity)
	route.TotalDistanceMeters = &total

	return route, nil
}

// ReorderTrip applies a manual stop order. The trip is no longer considered optimized.
func ReorderTrip(ctx context.Context, tripID string, placeIDs []string, repo ports.TripRepository) (*domain.TripRoute, error) {
	trip, err := repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("reorder trip: %w", err)
	}

	if err := trip.Reorder(placeIDs); err != nil {
		return nil, fmt.Errorf("reorder trip: %w", err)
	}

	if err := repo.SaveStopOrder(ctx, trip); err != nil {
		return nil, fmt.Errorf("reorder trip %s: save stop order: %w", trip.TripID, err)
	}

	return &domain.TripRoute{Trip: trip}, nil
}

// AddTripStop appends a catalog place to the end of a trip. The trip is no
// longer considered optimized.
func AddTripStop(ctx context.Context, tripID, placeID string, repo ports.TripRepository) (*domain.TripRoute, error) {
	trip, err := repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("add trip stop: %w", err)
	}

	place, err := repo.GetPlace(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("add trip stop: %w", err)
	}

	stop := &domain.TripStop{StopID: uuid.NewString(), Place: place}
	if err := trip.AddStop(stop); err != nil {
		return nil, fmt.Errorf("add trip stop: %w", err)
	}

	if err := repo.AddStop(ctx, trip, stop); err != nil {
		return nil, fmt.Errorf("add trip stop %s: %w", trip.TripID, err)
	}

	log.Printf("trip stop added trip_id=%s place_id=%s stops=%d", trip.TripID, placeID, len(trip.Stops))

	return &domain.TripRoute{Trip: trip}, nil
}

// RemoveTripStop drops the stop visiting placeID and renumbers the rest.
// The trip is no longer considered optimized.
func RemoveTripStop(ctx context.Context, tripID, placeID string, repo ports.TripRepository) (*domain.TripRoute, error) {
	trip, err := repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("remove trip stop: %w", err)
	}

	removed, err := trip.RemoveStop(placeID)
	if err != nil {
		return nil, fmt.Errorf("remove trip stop: %w", err)
	}

	if err := repo.RemoveStop(ctx, trip, removed.StopID); err != nil {
		return nil, fmt.Errorf("remove trip stop %s: %w", trip.TripID, err)
	}

	log.Printf("trip stop removed trip_id=%s place_id=%s stops=%d", trip.TripID, placeID, len(trip.Stops))

	return &domain.TripRoute{Trip: trip}, nil
}
