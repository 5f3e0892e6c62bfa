package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"
)

// In-memory TripRepository used by tests and local runs without a database.
// Trips are copied on the way in and out so callers never share stop pointers
// with the store.
type MemoryTripRepository struct {
	mu     sync.RWMutex
	trips  map[string]*domain.Trip
	places map[string]domain.Place
}

// The place catalog starts with every place referenced by the given trips.
func NewMemoryTripRepository(trips ...*domain.Trip) *MemoryTripRepository {
	r := &MemoryTripRepository{
		trips:  make(map[string]*domain.Trip, len(trips)),
		places: make(map[string]domain.Place),
	}
	for _, t := range trips {
		c := cloneTrip(t)
		c.Normalize()
		r.trips[c.TripID] = c
		for _, s := range c.Stops {
			r.places[s.Place.PlaceID] = s.Place
		}
	}
	return r
}

// Add places to the catalog without attaching them to a trip.
func (r *MemoryTripRepository) AddPlaces(places ...domain.Place) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range places {
		r.places[p.PlaceID] = p
	}
}

func (r *MemoryTripRepository) GetPlace(_ context.Context, placeID string) (domain.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.places[placeID]
	if !ok {
		return domain.Place{}, fmt.Errorf("get place %s: %w", placeID, ports.ErrPlaceNotFound)
	}
	return p, nil
}

func (r *MemoryTripRepository) GetTrip(_ context.Context, tripID string) (*domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok {
		return nil, fmt.Errorf("get trip %s: %w", tripID, ports.ErrTripNotFound)
	}
	return cloneTrip(t), nil
}

func (r *MemoryTripRepository) SaveStopOrder(_ context.Context, trip *domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.trips[trip.TripID]
	if !ok {
		return fmt.Errorf("save stop order: trip %s: %w", trip.TripID, ports.ErrTripNotFound)
	}

	r.saveStopOrder(stored, trip)
	return nil
}

func (r *MemoryTripRepository) AddStop(_ context.Context, trip *domain.Trip, stop *domain.TripStop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.trips[trip.TripID]
	if !ok {
		return fmt.Errorf("add stop: trip %s: %w", trip.TripID, ports.ErrTripNotFound)
	}
	if _, ok := r.places[stop.Place.PlaceID]; !ok {
		return fmt.Errorf("add stop: place %s: %w", stop.Place.PlaceID, ports.ErrPlaceNotFound)
	}
	for _, s := range stored.Stops {
		if s.Place.PlaceID == stop.Place.PlaceID {
			return fmt.Errorf("add stop: place %s: %w", stop.Place.PlaceID, domain.ErrDuplicatePlace)
		}
	}

	c := *stop
	stored.Stops = append(stored.Stops, &c)
	r.saveStopOrder(stored, trip)
	return nil
}

func (r *MemoryTripRepository) RemoveStop(_ context.Context, trip *domain.Trip, stopID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.trips[trip.TripID]
	if !ok {
		return fmt.Errorf("remove stop: trip %s: %w", trip.TripID, ports.ErrTripNotFound)
	}

	stored.Stops = slices.DeleteFunc(stored.Stops, func(s *domain.TripStop) bool {
		return s.StopID == stopID
	})
	r.saveStopOrder(stored, trip)
	return nil
}

// Copy sequences and the optimized flag from trip onto the stored copy.
func (r *MemoryTripRepository) saveStopOrder(stored, trip *domain.Trip) {
	seq := make(map[string]int, len(trip.Stops))
	for _, s := range trip.Stops {
		seq[s.StopID] = s.Sequence
	}
	for _, s := range stored.Stops {
		s.Sequence = seq[s.StopID]
	}

	stored.IsOptimized = trip.IsOptimized
	stored.UpdatedAt = time.Now().UTC()
	trip.UpdatedAt = stored.UpdatedAt
	stored.Normalize()
}

func cloneTrip(t *domain.Trip) *domain.Trip {
	c := *t
	c.Stops = make([]*domain.TripStop, len(t.Stops))
	for i, s := range t.Stops {
		stop := *s
		c.Stops[i] = &stop
	}
	return &c
}
