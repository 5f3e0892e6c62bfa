package ports

import (
	"context"
	"errors"
	"trip-route-service/internal/domain"
)

var (
	// ErrTripNotFound is returned when a trip id does not exist.
	ErrTripNotFound = errors.New("trip not found")
	// ErrPlaceNotFound is returned when a place id is not in the catalog.
	ErrPlaceNotFound = errors.New("place not found")
)

// Port: a boundary for loading and persisting Trip aggregates.
type TripRepository interface {
	// Load a trip with its stops sorted by sequence.
	// Stops whose place is missing from the catalog are omitted.
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)

	// Look up a place in the catalog.
	GetPlace(ctx context.Context, placeID string) (domain.Place, error)

	// Persist every stop's sequence number and the trip's optimized flag.
	SaveStopOrder(ctx context.Context, trip *domain.Trip) error

	// Insert stop (already appended to trip) and persist the trip's optimized flag.
	AddStop(ctx context.Context, trip *domain.Trip, stop *domain.TripStop) error

	// Delete the stop with stopID (already removed from trip) and persist
	// the renumbered sequences of the remaining stops.
	RemoveStop(ctx context.Context, trip *domain.Trip, stopID string) error
}
