package dto

import "time"

type OptimizeTripRequest struct {
	// Optional; the optimizer default applies when omitted.
	TimeBudgetMs *int `json:"time_budget_ms"`
}

type ReorderTripRequest struct {
	PlaceIDs []string `json:"place_ids"`
}

type AddTripPlaceRequest struct {
	PlaceID string `json:"place_id"`
}

type TripPlaceResponse struct {
	PlaceID   string  `json:"place_id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Order     int     `json:"order"`
}

type TripResponse struct {
	TripID          string              `json:"trip_id"`
	UserID          string              `json:"user_id"`
	Name            string              `json:"name"`
	IsOptimized     bool                `json:"is_optimized"`
	UpdatedAt       time.Time           `json:"updated_at"`
	TotalDistance   *int                `json:"total_distance"`
	TotalDistanceKm *float64            `json:"total_distance_km"`
	PlaceCounts     map[string]int      `json:"place_counts"`
	Places          []TripPlaceResponse `json:"places"`
}

type OptimizeTripResponse struct {
	Message         string              `json:"message"`
	IsOptimized     bool                `json:"is_optimized"`
	TotalDistance   int                 `json:"total_distance"`
	TotalDistanceKm float64             `json:"total_distance_km"`
	IsExact         bool                `json:"is_exact"`
	Solver          string              `json:"solver"`
	ElapsedMs       int64               `json:"elapsed_ms"`
	Cached          bool                `json:"cached"`
	Places          []TripPlaceResponse `json:"places"`
}

// Response for edits that change the trip's places or their order.
type TripPlacesResponse struct {
	Message     string              `json:"message"`
	IsOptimized bool                `json:"is_optimized"`
	Places      []TripPlaceResponse `json:"places"`
}
