package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"trip-route-service/internal/api/dto"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/optimizer"
	"trip-route-service/internal/ports"
	"trip-route-service/internal/services"
)

const maxTimeBudgetMs = 60000

type TripHandler struct {
	Repo      ports.TripRepository
	Cache     ports.ResultCache // nil disables result caching
	Optimizer *optimizer.Optimizer
}

// Get returns a trip with its places in visiting order.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	tripID, ok := parseTripID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "trip id must be a UUID")
		return
	}

	route, err := services.GetTripRoute(r.Context(), tripID, h.Repo)
	if err != nil {
		h.writeServiceError(w, r, "get trip", err)
		return
	}

	trip := route.Trip
	writeJSON(w, r, http.StatusOK, dto.TripResponse{
		TripID:          trip.TripID,
		UserID:          trip.UserID,
		Name:            trip.Name,
		IsOptimized:     trip.IsOptimized,
		UpdatedAt:       trip.UpdatedAt,
		TotalDistance:   route.TotalDistanceMeters,
		TotalDistanceKm: route.TotalDistanceKm(),
		PlaceCounts:     placeCounts(trip),
		Places:          toPlaceResponses(trip),
	})
}

// Optimize reorders a trip's places to shorten the total travel distance.
// The first place stays first.
func (h *TripHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	tripID, ok := parseTripID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "trip id must be a UUID")
		return
	}

	var req dto.OptimizeTripRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var budget time.Duration
	if req.TimeBudgetMs != nil {
		ms := *req.TimeBudgetMs
		if ms < 1 || ms > maxTimeBudgetMs {
			writeError(w, r, http.StatusBadRequest, "time_budget_ms must be between 1 and 60000")
			return
		}
		budget = time.Duration(ms) * time.Millisecond
	}

	svcReq := services.OptimizeTripRequest{
		TripID:     tripID,
		TimeBudget: budget,
	}

	route, err := services.OptimizeTrip(r.Context(), svcReq, h.Repo, h.Cache, h.Optimizer)
	if err != nil {
		h.writeServiceError(w, r, "optimize trip", err)
		return
	}

	res := dto.OptimizeTripResponse{
		Message:     "Trip optimized successfully",
		IsOptimized: route.Trip.IsOptimized,
		IsExact:     route.IsExact,
		Solver:      route.Solver,
		ElapsedMs:   route.Elapsed.Milliseconds(),
		Cached:      route.Cached,
		Places:      toPlaceResponses(route.Trip),
	}
	if route.TotalDistanceMeters != nil {
		res.TotalDistance = *route.TotalDistanceMeters
		res.TotalDistanceKm = *route.TotalDistanceKm()
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Reorder applies a user-chosen order. Listed places move to the front.
func (h *TripHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	tripID, ok := parseTripID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "trip id must be a UUID")
		return
	}

	var req dto.ReorderTripRequest
	if err := decodeJSON(r, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			writeError(w, r, http.StatusBadRequest, "place_ids array is required")
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.PlaceIDs == nil {
		writeError(w, r, http.StatusBadRequest, "place_ids array is required")
		return
	}

	route, err := services.ReorderTrip(r.Context(), tripID, req.PlaceIDs, h.Repo)
	if err != nil {
		h.writeServiceError(w, r, "reorder trip", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TripPlacesResponse{
		Message:     "Trip places reordered successfully",
		IsOptimized: route.Trip.IsOptimized,
		Places:      toPlaceResponses(route.Trip),
	})
}

// AddPlace appends a catalog place to the end of the trip.
func (h *TripHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	tripID, ok := parseTripID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "trip id must be a UUID")
		return
	}

	var req dto.AddTripPlaceRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	placeID := strings.TrimSpace(req.PlaceID)
	if placeID == "" {
		writeError(w, r, http.StatusBadRequest, "place_id is required")
		return
	}

	route, err := services.AddTripStop(r.Context(), tripID, placeID, h.Repo)
	if err != nil {
		h.writeServiceError(w, r, "add trip place", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.TripPlacesResponse{
		Message:     "Place added to trip successfully",
		IsOptimized: route.Trip.IsOptimized,
		Places:      toPlaceResponses(route.Trip),
	})
}

// RemovePlace deletes a place from the trip and renumbers the rest.
func (h *TripHandler) RemovePlace(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}

	tripID, ok := parseTripID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "trip id must be a UUID")
		return
	}

	route, err := services.RemoveTripStop(r.Context(), tripID, r.PathValue("placeID"), h.Repo)
	if errors.Is(err, domain.ErrUnknownPlace) {
		writeError(w, r, http.StatusNotFound, "place not found in trip")
		return
	}
	if err != nil {
		h.writeServiceError(w, r, "remove trip place", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TripPlacesResponse{
		Message:     "Place removed from trip successfully",
		IsOptimized: route.Trip.IsOptimized,
		Places:      toPlaceResponses(route.Trip),
	})
}

// Map known service errors to client errors; everything else is logged and hidden.
func (h *TripHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ports.ErrTripNotFound):
		writeError(w, r, http.StatusNotFound, "trip not found")
	case errors.Is(err, ports.ErrPlaceNotFound):
		writeError(w, r, http.StatusNotFound, "place not found")
	case errors.Is(err, domain.ErrDuplicatePlace):
		writeError(w, r, http.StatusBadRequest, "place already exists in this trip")
	case errors.Is(err, services.ErrTooFewStops):
		writeError(w, r, http.StatusBadRequest, "trip must have at least 2 places to optimize")
	case errors.Is(err, domain.ErrUnknownPlace):
		writeError(w, r, http.StatusBadRequest, "place is not part of the trip")
	case errors.Is(err, domain.ErrInvalidOrder):
		writeError(w, r, http.StatusBadRequest, "place listed more than once")
	default:
		log.Printf("%s failed: method=%s path=%s err=%v", op, r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
