package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/ports"
)

// SQLite-backed implementation of the TripRepository port.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

// Return a trip with its stops ordered by sequence.
func (s *SqliteTripRepository) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	var (
		trip      domain.Trip
		optimized int
		updatedAt int64
	)
	err := s.DB.QueryRowContext(ctx, `
	SELECT
		trip_id,
		user_id,
		name,
		is_optimized,
		updated_at
	FROM user_trips
	WHERE trip_id = ?;
	`, tripID).Scan(&trip.TripID, &trip.UserID, &trip.Name, &optimized, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %s: %w", tripID, ports.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: query user_trips table: %w", tripID, err)
	}
	trip.IsOptimized = optimized != 0
	trip.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	// Inner join: stops whose place left the catalog are skipped.
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		s.stop_id,
		s.sequence,
		p.place_id,
		p.name,
		p.type,
		p.lat,
		p.lon
	FROM trip_stops s
	JOIN places p ON p.place_id = s.place_id
	WHERE s.trip_id = ?
	ORDER BY s.sequence, s.stop_id;
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("get trip %s: query trip_stops table: %w", tripID, err)
	}
	defer rows.Close()

	for rows.Next() {
		stop := &domain.TripStop{}
		var placeType string
		if err := rows.Scan(
			&stop.StopID,
			&stop.Sequence,
			&stop.Place.PlaceID,
			&stop.Place.Name,
			&placeType,
			&stop.Place.Location.Lat,
			&stop.Place.Location.Lon,
		); err != nil {
			return nil, fmt.Errorf("get trip %s: scan row: %w", tripID, err)
		}
		stop.Place.Type = domain.PlaceType(placeType)
		trip.Stops = append(trip.Stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get trip %s: row iteration: %w", tripID, err)
	}

	trip.Normalize()

	return &trip, nil
}

// Return a place from the catalog.
func (s *SqliteTripRepository) GetPlace(ctx context.Context, placeID string) (domain.Place, error) {
	if s.DB == nil {
		return domain.Place{}, errors.New("sqlite trip repository: DB is nil")
	}

	var (
		p         domain.Place
		placeType string
	)
	err := s.DB.QueryRowContext(ctx, `
	SELECT
		place_id,
		name,
		type,
		lat,
		lon
	FROM places
	WHERE place_id = ?;
	`, placeID).Scan(&p.PlaceID, &p.Name, &placeType, &p.Location.Lat, &p.Location.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Place{}, fmt.Errorf("get place %s: %w", placeID, ports.ErrPlaceNotFound)
	}
	if err != nil {
		return domain.Place{}, fmt.Errorf("get place %s: query places table: %w", placeID, err)
	}
	p.Type = domain.PlaceType(placeType)

	return p, nil
}

// Persist stop sequences and the optimized flag in one transaction.
func (s *SqliteTripRepository) SaveStopOrder(ctx context.Context, trip *domain.Trip) error {
	return s.inTx(ctx, "save stop order", func(tx *sql.Tx) error {
		return s.saveStopOrder(ctx, tx, trip)
	})
}

// Insert a new stop and mark the trip as not optimized.
func (s *SqliteTripRepository) AddStop(ctx context.Context, trip *domain.Trip, stop *domain.TripStop) error {
	return s.inTx(ctx, "add stop", func(tx *sql.Tx) error {
		if err := s.touchTrip(ctx, tx, trip); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO trip_stops (
			stop_id,
			trip_id,
			place_id,
			sequence
		)
		VALUES (?, ?, ?, ?);
		`, stop.StopID, trip.TripID, stop.Place.PlaceID, stop.Sequence); err != nil {
			return fmt.Errorf("insert stop trip_id=%s place_id=%s: %w", trip.TripID, stop.Place.PlaceID, err)
		}

		return nil
	})
}

// Delete a stop and persist the renumbered sequences of the rest.
func (s *SqliteTripRepository) RemoveStop(ctx context.Context, trip *domain.Trip, stopID string) error {
	return s.inTx(ctx, "remove stop", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trip_stops WHERE stop_id = ? AND trip_id = ?;`, stopID, trip.TripID); err != nil {
			return fmt.Errorf("delete stop_id=%s: %w", stopID, err)
		}
		return s.saveStopOrder(ctx, tx, trip)
	})
}

func (s *SqliteTripRepository) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: db begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// All sequences are reset first so stops missing from trip.Stops do not keep stale positions.
func (s *SqliteTripRepository) saveStopOrder(ctx context.Context, tx *sql.Tx, trip *domain.Trip) error {
	if _, err := tx.ExecContext(ctx, `UPDATE trip_stops SET sequence = 0 WHERE trip_id = ?;`, trip.TripID); err != nil {
		return fmt.Errorf("reset sequences trip_id=%s: %w", trip.TripID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	UPDATE trip_stops
	SET sequence = ?
	WHERE stop_id = ? AND trip_id = ?;
	`)
	if err != nil {
		return fmt.Errorf("db prepare: %w", err)
	}
	defer stmt.Close()

	for _, stop := range trip.Stops {
		if _, err := stmt.ExecContext(ctx, stop.Sequence, stop.StopID, trip.TripID); err != nil {
			return fmt.Errorf("update stop_id=%s: %w", stop.StopID, err)
		}
	}

	return s.touchTrip(ctx, tx, trip)
}

// Write the optimized flag and a new updated_at on the trip row.
func (s *SqliteTripRepository) touchTrip(ctx context.Context, tx *sql.Tx, trip *domain.Trip) error {
	trip.UpdatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
	UPDATE user_trips
	SET is_optimized = ?, updated_at = ?
	WHERE trip_id = ?;
	`, boolToInt(trip.IsOptimized), trip.UpdatedAt.Unix(), trip.TripID)
	if err != nil {
		return fmt.Errorf("update trip_id=%s: %w", trip.TripID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("trip %s: %w", trip.TripID, ports.ErrTripNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
