package repositories

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func newSeededPostgres(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, InitPostgresSchema(ctx, db))
	_, err = db.ExecContext(ctx, `DELETE FROM user_trips WHERE trip_id = $1`, testTripID)
	require.NoError(t, err)
	require.NoError(t, SeedPostgresFromJSON(ctx, db, writeSeed(t, testSeed)))
	return db
}

func TestSQLTripRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLTripRepository(newSeededPostgres(t))

	trip, err := repo.GetTrip(ctx, testTripID)
	require.NoError(t, err)
	require.Equal(t, []string{"hotel-1", "food-1", "todo-1"}, stopPlaces(trip))

	require.NoError(t, trip.ApplyOptimizedOrder([]int{0, 2, 1}))
	require.NoError(t, repo.SaveStopOrder(ctx, trip))

	reloaded, err := repo.GetTrip(ctx, testTripID)
	require.NoError(t, err)
	require.True(t, reloaded.IsOptimized)
	require.Equal(t, []string{"hotel-1", "todo-1", "food-1"}, stopPlaces(reloaded))
}
