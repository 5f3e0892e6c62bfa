package domain

import (
	"math"
	"time"
)

// Represents a trip together with route metrics for its current stop order.
// TotalDistanceMeters is nil when the trip has not been optimized or has
// fewer than two stops.
type TripRoute struct {
	Trip                *Trip
	TotalDistanceMeters *int
	IsExact             bool
	Solver              string
	Elapsed             time.Duration
	Cached              bool
}

// Total distance in kilometres rounded to two decimals.
func (r TripRoute) TotalDistanceKm() *float64 {
	if r.TotalDistanceMeters == nil {
		return nil
	}
	km := math.Round(float64(*r.TotalDistanceMeters)/10) / 100
	return &km
}
