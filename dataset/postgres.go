package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func newPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// a single bulk read at startup
	config.MaxConns = 2
	config.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return pool, nil
}

// LoadTripsPostgres reads the trip log from a Postgres table. Timestamp
// columns are read as text so they go through the same parser as CSV input;
// a NULL timestamp arrives as "" and only its trip is rejected.
func LoadTripsPostgres(ctx context.Context, databaseURL, table string) ([]TripRecord, error) {
	pool, err := newPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	query := `SELECT COALESCE(ride_id::text, ''), COALESCE(start_station_id::text, ''),
		COALESCE(end_station_id::text, ''), COALESCE(started_at::text, ''),
		COALESCE(ended_at::text, '')
		FROM ` + pgx.Identifier{table}.Sanitize()

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	trips, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (TripRecord, error) {
		var t TripRecord
		err := row.Scan(&t.RideID, &t.StartStationID, &t.EndStationID, &t.StartedAt, &t.EndedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan trips: %w", err)
	}
	return trips, nil
}
