package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-route-service/internal/domain"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// SQLTripRepository is a Postgres-backed TripRepository (pgx stdlib driver).
type SQLTripRepository struct {
	DB *sql.DB
}

func NewSQLTripRepository(db *sql.DB) *SQLTripRepository {
	return &SQLTripRepository{DB: db}
}

func (s *SQLTripRepository) GetTrip(ctx context.Context, tripID string) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trips.repo.GetTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("trip repository: db is nil")
	}

	var trip domain.Trip
	err = s.DB.QueryRowContext(ctx, `
	SELECT trip_id::text, user_id::text, name, is_optimized, updated_at
	FROM user_trips
	WHERE trip_id = $1;
	`, tripID).Scan(&trip.TripID, &trip.UserID, &trip.Name, &trip.IsOptimized, &trip.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %s: %w", tripID, ports.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: query user_trips table: %w", tripID, err)
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT s.stop_id::text, s.sequence, p.place_id, p.name, p.type, p.lat, p.lon
	FROM trip_stops s
	JOIN places p ON p.place_id = s.place_id
	WHERE s.trip_id = $1
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
			return nil, fmt.Errorf("get trip %s: scan rows: %w", tripID, err)
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

func (s *SQLTripRepository) GetPlace(ctx context.Context, placeID string) (_ domain.Place, err error) {
	defer obs.Time(ctx, "trips.repo.GetPlace")(&err)

	if s.DB == nil {
		return domain.Place{}, errors.New("trip repository: db is nil")
	}

	var (
		p         domain.Place
		placeType string
	)
	err = s.DB.QueryRowContext(ctx, `
	SELECT place_id, name, type, lat, lon
	FROM places
	WHERE place_id = $1;
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

func (s *SQLTripRepository) SaveStopOrder(ctx context.Context, trip *domain.Trip) (err error) {
	defer obs.Time(ctx, "trips.repo.SaveStopOrder")(&err)

	return s.inTx(ctx, "save stop order", func(tx *sql.Tx) error {
		return saveStopOrderPG(ctx, tx, trip)
	})
}

func (s *SQLTripRepository) AddStop(ctx context.Context, trip *domain.Trip, stop *domain.TripStop) (err error) {
	defer obs.Time(ctx, "trips.repo.AddStop")(&err)

	return s.inTx(ctx, "add stop", func(tx *sql.Tx) error {
		if err := touchTripPG(ctx, tx, trip); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO trip_stops (stop_id, trip_id, place_id, sequence)
		VALUES ($1, $2, $3, $4);
		`, stop.StopID, trip.TripID, stop.Place.PlaceID, stop.Sequence); err != nil {
			return fmt.Errorf("insert stop trip_id=%s place_id=%s: %w", trip.TripID, stop.Place.PlaceID, err)
		}
		return nil
	})
}

func (s *SQLTripRepository) RemoveStop(ctx context.Context, trip *domain.Trip, stopID string) (err error) {
	defer obs.Time(ctx, "trips.repo.RemoveStop")(&err)

	return s.inTx(ctx, "remove stop", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trip_stops WHERE stop_id = $1 AND trip_id = $2;`, stopID, trip.TripID); err != nil {
			return fmt.Errorf("delete stop_id=%s: %w", stopID, err)
		}
		return saveStopOrderPG(ctx, tx, trip)
	})
}

func (s *SQLTripRepository) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	if s.DB == nil {
		return errors.New("trip repository: db is nil")
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

func saveStopOrderPG(ctx context.Context, tx *sql.Tx, trip *domain.Trip) error {
	ids := make([]string, 0, len(trip.Stops))
	seqs := make([]int32, 0, len(trip.Stops))
	for _, stop := range trip.Stops {
		ids = append(ids, stop.StopID)
		seqs = append(seqs, int32(stop.Sequence))
	}

	if _, err := tx.ExecContext(ctx, `UPDATE trip_stops SET sequence = 0 WHERE trip_id = $1;`, trip.TripID); err != nil {
		return fmt.Errorf("reset sequences trip_id=%s: %w", trip.TripID, err)
	}

	// One round trip for all stops: pair ids with sequences via unnest.
	if _, err := tx.ExecContext(ctx, `
	UPDATE trip_stops AS s
	SET sequence = v.sequence
	FROM unnest($1::uuid[], $2::int[]) AS v(stop_id, sequence)
	WHERE s.stop_id = v.stop_id AND s.trip_id = $3;
	`, ids, seqs, trip.TripID); err != nil {
		return fmt.Errorf("update stops trip_id=%s: %w", trip.TripID, err)
	}

	return touchTripPG(ctx, tx, trip)
}

func touchTripPG(ctx context.Context, tx *sql.Tx, trip *domain.Trip) error {
	err := tx.QueryRowContext(ctx, `
	UPDATE user_trips
	SET is_optimized = $1, updated_at = now()
	WHERE trip_id = $2
	RETURNING updated_at;
	`, trip.IsOptimized, trip.TripID).Scan(&trip.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("trip %s: %w", trip.TripID, ports.ErrTripNotFound)
	}
	if err != nil {
		return fmt.Errorf("update trip_id=%s: %w", trip.TripID, err)
	}
	return nil
}
