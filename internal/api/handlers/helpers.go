package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"trip-route-service/internal/api/dto"
	"trip-route-service/internal/domain"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

var errEmptyBody = errors.New("empty body")

// Decode a single JSON object from the request body into v.
// Returns errEmptyBody when the body has no content.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// Trip ids are UUIDs; return the canonical form.
func parseTripID(r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("tripID"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func toPlaceResponses(trip *domain.Trip) []dto.TripPlaceResponse {
	out := make([]dto.TripPlaceResponse, 0, len(trip.Stops))
	for _, s := range trip.Stops {
		out = append(out, dto.TripPlaceResponse{
			PlaceID:   s.Place.PlaceID,
			Name:      s.Place.Name,
			Type:      string(s.Place.Type),
			Latitude:  s.Place.Location.Lat,
			Longitude: s.Place.Location.Lon,
			Order:     s.Sequence,
		})
	}
	return out
}

// Stop counts keyed by place type; all known types are present.
func placeCounts(trip *domain.Trip) map[string]int {
	out := map[string]int{
		string(domain.PlaceHotel):      0,
		string(domain.PlaceRestaurant): 0,
		string(domain.PlaceThingToDo):  0,
	}
	for typ, n := range trip.CountByType() {
		out[string(typ)] = n
	}
	return out
}
