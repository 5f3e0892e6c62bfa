package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"trip-route-service/internal/domain"

	"github.com/google/uuid"
)

type PlaceSeed struct {
	PlaceID string  `json:"place_id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type TripSeed struct {
	TripID   string   `json:"trip_id"`
	UserID   string   `json:"user_id"`
	Name     string   `json:"name"`
	PlaceIDs []string `json:"place_ids"`
}

type SeedData struct {
	Places []PlaceSeed `json:"places"`
	Trips  []TripSeed  `json:"trips"`
}

// Read and validate a seed file.
func loadSeed(jsonPath string) (*SeedData, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedData
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed: parse json: %w", err)
	}

	known := make(map[string]struct{}, len(data.Places))
	for i := range data.Places {
		p := &data.Places[i]
		p.PlaceID = strings.TrimSpace(p.PlaceID)
		if p.PlaceID == "" {
			return nil, fmt.Errorf("seed places: item at index %d: place_id cannot be empty", i+1)
		}
		loc := domain.Coordinates{Lat: p.Lat, Lon: p.Lon}
		if !loc.Valid() {
			return nil, fmt.Errorf("seed places: place_id=%s: coordinates (%v, %v) out of range", p.PlaceID, p.Lat, p.Lon)
		}
		known[p.PlaceID] = struct{}{}
	}

	for i := range data.Trips {
		t := &data.Trips[i]
		if _, err := uuid.Parse(t.TripID); err != nil {
			return nil, fmt.Errorf("seed trips: item at index %d: trip_id %q: %w", i+1, t.TripID, err)
		}
		if _, err := uuid.Parse(t.UserID); err != nil {
			return nil, fmt.Errorf("seed trips: trip_id=%s: user_id %q: %w", t.TripID, t.UserID, err)
		}
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("seed trips: trip_id=%s: name cannot be empty", t.TripID)
		}
		seen := make(map[string]struct{}, len(t.PlaceIDs))
		for _, placeID := range t.PlaceIDs {
			if _, ok := known[placeID]; !ok {
				return nil, fmt.Errorf("seed trips: trip_id=%s: unknown place_id %q", t.TripID, placeID)
			}
			if _, dup := seen[placeID]; dup {
				return nil, fmt.Errorf("seed trips: trip_id=%s: place_id %q listed twice", t.TripID, placeID)
			}
			seen[placeID] = struct{}{}
		}
	}

	return &data, nil
}

// Stop ids are derived from trip and place so reseeding is idempotent.
func seedStopID(tripID, placeID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(tripID+"|"+placeID)).String()
}
