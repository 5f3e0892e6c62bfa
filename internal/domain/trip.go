package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidOrder   = errors.New("invalid stop order")
	ErrUnknownPlace   = errors.New("place is not part of the trip")
	ErrDuplicatePlace = errors.New("place already exists in the trip")
)

// A single place in a trip, visited at position Sequence (1-based).
type TripStop struct {
	StopID   string
	Place    Place
	Sequence int
}

// Trip aggregate holding the ordered stops a user plans to visit.
// Stops are kept sorted by Sequence, and sequences are contiguous from 1.
type Trip struct {
	TripID      string
	UserID      string
	Name        string
	IsOptimized bool
	Stops       []*TripStop
	UpdatedAt   time.Time
}

// Sort stops by sequence and renumber them 1..N.
// Equal sequences fall back to stop id so the order is deterministic.
func (t *Trip) Normalize() {
	slices.SortStableFunc(t.Stops, func(a, b *TripStop) int {
		if a.Sequence != b.Sequence {
			return a.Sequence - b.Sequence
		}
		return strings.Compare(a.StopID, b.StopID)
	})
	for i, s := range t.Stops {
		s.Sequence = i + 1
	}
}

// Apply an optimizer result: order[k] is the current index of the stop that
// becomes the (k+1)-th stop. Marks the trip as optimized.
func (t *Trip) ApplyOptimizedOrder(order []int) error {
	n := len(t.Stops)
	if len(order) != n {
		return fmt.Errorf("apply order: trip %s: %d positions for %d stops: %w", t.TripID, len(order), n, ErrInvalidOrder)
	}

	seen := make([]bool, n)
	reordered := make([]*TripStop, n)
	for pos, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return fmt.Errorf("apply order: trip %s: bad index %d at position %d: %w", t.TripID, idx, pos, ErrInvalidOrder)
		}
		seen[idx] = true
		reordered[pos] = t.Stops[idx]
	}

	for pos, s := range reordered {
		s.Sequence = pos + 1
	}
	t.Stops = reordered
	t.IsOptimized = true

	return nil
}

// Manually reorder stops. Listed places move to the front in the given order;
// unlisted stops keep their relative order after them. Clears IsOptimized.
func (t *Trip) Reorder(placeIDs []string) error {
	byPlace := make(map[string]*TripStop, len(t.Stops))
	for _, s := range t.Stops {
		byPlace[s.Place.PlaceID] = s
	}

	moved := make(map[string]struct{}, len(placeIDs))
	reordered := make([]*TripStop, 0, len(t.Stops))
	for _, id := range placeIDs {
		s, ok := byPlace[id]
		if !ok {
			return fmt.Errorf("reorder trip %s: place %q: %w", t.TripID, id, ErrUnknownPlace)
		}
		if _, dup := moved[id]; dup {
			return fmt.Errorf("reorder trip %s: place %q listed twice: %w", t.TripID, id, ErrInvalidOrder)
		}
		moved[id] = struct{}{}
		reordered = append(reordered, s)
	}
	for _, s := range t.Stops {
		if _, ok := moved[s.Place.PlaceID]; !ok {
			reordered = append(reordered, s)
		}
	}

	for i, s := range reordered {
		s.Sequence = i + 1
	}
	t.Stops = reordered
	t.IsOptimized = false

	return nil
}

// Append a stop at the end of the trip. A place can appear only once.
// Clears IsOptimized.
func (t *Trip) AddStop(stop *TripStop) error {
	for _, s := range t.Stops {
		if s.Place.PlaceID == stop.Place.PlaceID {
			return fmt.Errorf("add stop to trip %s: place %q: %w", t.TripID, stop.Place.PlaceID, ErrDuplicatePlace)
		}
	}

	stop.Sequence = len(t.Stops) + 1
	t.Stops = append(t.Stops, stop)
	t.IsOptimized = false

	return nil
}

// Remove the stop visiting placeID and renumber the rest 1..N.
// Clears IsOptimized.
func (t *Trip) RemoveStop(placeID string) (*TripStop, error) {
	idx := slices.IndexFunc(t.Stops, func(s *TripStop) bool { return s.Place.PlaceID == placeID })
	if idx < 0 {
		return nil, fmt.Errorf("remove stop from trip %s: place %q: %w", t.TripID, placeID, ErrUnknownPlace)
	}

	removed := t.Stops[idx]
	t.Stops = slices.Delete(t.Stops, idx, idx+1)
	for i, s := range t.Stops {
		s.Sequence = i + 1
	}
	t.IsOptimized = false

	return removed, nil
}

// Number of stops per place type.
func (t *Trip) CountByType() map[PlaceType]int {
	out := make(map[PlaceType]int, 3)
	for _, s := range t.Stops {
		out[s.Place.Type]++
	}
	return out
}
