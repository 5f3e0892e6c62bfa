package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	data, err := loadSeed(writeSeed(t, testSeed))
	require.NoError(t, err)
	require.Len(t, data.Places, 4)
	require.Len(t, data.Trips, 1)
	require.Equal(t, []string{"hotel-1", "food-1", "todo-1"}, data.Trips[0].PlaceIDs)
}

func TestLoadSeedRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"bad trip id":     strings.Replace(testSeed, testTripID, "not-a-uuid", 1),
		"bad user id":     strings.Replace(testSeed, testUserID, "alice", 1),
		"unknown place":   strings.Replace(testSeed, `"todo-1"]`, `"nowhere"]`, 1),
		"duplicate place": strings.Replace(testSeed, `"todo-1"]`, `"hotel-1"]`, 1),
		"bad coordinates": strings.Replace(testSeed, `"lat": 16.0678`, `"lat": 96.0678`, 1),
		"empty place id":  strings.Replace(testSeed, `"place_id": "food-1"`, `"place_id": " "`, 1),
		"malformed json":  testSeed[:40],
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadSeed(writeSeed(t, body))
			require.Error(t, err)
		})
	}
}

func TestSeedStopIDIsStable(t *testing.T) {
	a := seedStopID(testTripID, "hotel-1")
	require.Equal(t, a, seedStopID(testTripID, "hotel-1"))
	require.NotEqual(t, a, seedStopID(testTripID, "food-1"))
}

func TestBundledSeedFileIsValid(t *testing.T) {
	data, err := loadSeed("../../../data/seeds/trips.json")
	require.NoError(t, err)
	require.NotEmpty(t, data.Places)
	require.NotEmpty(t, data.Trips)
}
