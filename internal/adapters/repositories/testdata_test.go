package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testTripID = "6f1c2b3a-4d5e-4f60-8a7b-9c0d1e2f3a4b"
	testUserID = "0b7e9a52-3c1d-4e8f-9a6b-5d4c3b2a1f00"
)

const testSeed = `{
  "places": [
    {"place_id": "hotel-1", "name": "Riverside Hotel", "type": "HOTEL", "lat": 16.0678, "lon": 108.2208},
    {"place_id": "food-1", "name": "Market Stall", "type": "RESTAURANT", "lat": 16.0719, "lon": 108.2243},
    {"place_id": "todo-1", "name": "Dragon Bridge", "type": "THING-TO-DO", "lat": 16.0610, "lon": 108.2274},
    {"place_id": "todo-2", "name": "Marble Mountains", "type": "THING-TO-DO", "lat": 16.0037, "lon": 108.2637}
  ],
  "trips": [
    {
      "trip_id": "6f1c2b3a-4d5e-4f60-8a7b-9c0d1e2f3a4b",
      "user_id": "0b7e9a52-3c1d-4e8f-9a6b-5d4c3b2a1f00",
      "name": "Weekend in Da Nang",
      "place_ids": ["hotel-1", "food-1", "todo-1"]
    }
  ]
}`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
