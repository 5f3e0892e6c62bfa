package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS places (
			place_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS user_trips (
			trip_id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			is_optimized BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS trip_stops (
			stop_id UUID PRIMARY KEY,
			trip_id UUID NOT NULL REFERENCES user_trips(trip_id) ON DELETE CASCADE,
			place_id TEXT NOT NULL,
			sequence INTEGER NOT NULL DEFAULT 0
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS result_cache (
			cache_key TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			expires_at TIMESTAMPTZ
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_trip_stops_trip_sequence
		ON trip_stops(trip_id, sequence);
		`,
		`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_trip_stops_trip_place
		ON trip_stops(trip_id, place_id);
		`,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}

// Populate the Postgres database from a JSON seed file.
// Same semantics as SeedFromJSON: places upserted, existing trips kept.
func SeedPostgresFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	data, err := loadSeed(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range data.Places {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO places (place_id, name, type, lat, lon)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (place_id) DO UPDATE
		SET name = EXCLUDED.name,
			type = EXCLUDED.type,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon;
		`, p.PlaceID, p.Name, p.Type, p.Lat, p.Lon); err != nil {
			return fmt.Errorf("seed places: insert place_id=%s: %w", p.PlaceID, err)
		}
	}

	for _, t := range data.Trips {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_trips (trip_id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (trip_id) DO NOTHING;
		`, t.TripID, t.UserID, t.Name); err != nil {
			return fmt.Errorf("seed trips: insert trip_id=%s: %w", t.TripID, err)
		}

		for i, placeID := range t.PlaceIDs {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO trip_stops (stop_id, trip_id, place_id, sequence)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (stop_id) DO NOTHING;
			`, seedStopID(t.TripID, placeID), t.TripID, placeID, i+1); err != nil {
				return fmt.Errorf("seed stops: insert trip_id=%s place_id=%s: %w", t.TripID, placeID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
