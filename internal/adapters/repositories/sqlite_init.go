package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		place_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS user_trips (
		trip_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		is_optimized INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS trip_stops (
		stop_id TEXT PRIMARY KEY,
		trip_id TEXT NOT NULL REFERENCES user_trips(trip_id),
		place_id TEXT NOT NULL,
		sequence INTEGER NOT NULL DEFAULT 0
	);
	`

	createResultCacheQuery := `
	CREATE TABLE IF NOT EXISTS result_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trip_stops_trip_sequence
	ON trip_stops(trip_id, sequence);
	`

	createUniquePlaceQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_trip_stops_trip_place
	ON trip_stops(trip_id, place_id);
	`

	statements := []string{
		createPlacesQuery,
		createTripsQuery,
		createStopsQuery,
		createResultCacheQuery,
		createIndexQuery,
		createUniquePlaceQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the SQLite database with places and trips from a JSON file.
// Places are upserted; existing trips and stops are left untouched so a
// restart does not discard user changes.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	data, err := loadSeed(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer tx.Rollback()

	placeStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO places (
		place_id,
		name,
		type,
		lat,
		lon
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed places: prepare insert: %w", err)
	}
	defer placeStmt.Close()

	for _, p := range data.Places {
		if _, err := placeStmt.Exec(p.PlaceID, p.Name, p.Type, p.Lat, p.Lon); err != nil {
			return fmt.Errorf("seed places: insert place_id=%s: %w", p.PlaceID, err)
		}
	}

	tripStmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO user_trips (
		trip_id,
		user_id,
		name,
		is_optimized,
		updated_at
	)
	VALUES (?, ?, ?, 0, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed trips: prepare insert: %w", err)
	}
	defer tripStmt.Close()

	stopStmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO trip_stops (
		stop_id,
		trip_id,
		place_id,
		sequence
	)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed stops: prepare insert: %w", err)
	}
	defer stopStmt.Close()

	now := time.Now().Unix()
	for _, t := range data.Trips {
		if _, err := tripStmt.Exec(t.TripID, t.UserID, t.Name, now); err != nil {
			return fmt.Errorf("seed trips: insert trip_id=%s: %w", t.TripID, err)
		}
		for i, placeID := range t.PlaceIDs {
			if _, err := stopStmt.Exec(seedStopID(t.TripID, placeID), t.TripID, placeID, i+1); err != nil {
				return fmt.Errorf("seed stops: insert trip_id=%s place_id=%s: %w", t.TripID, placeID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
