package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/log"
)

// ErrInvalidTable is returned for table names that are not plain identifiers
var ErrInvalidTable = errors.New("invalid table name")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenSQLite opens a SQLite trip store with a single connection
func OpenSQLite(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			log.Warnw("failed to set pragma", "pragma", pragma, "error", err)
		}
	}
	return conn, nil
}

func quoteTable(table string) (string, error) {
	if !identPattern.MatchString(table) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return `"` + table + `"`, nil
}

// EnsureTripTable creates the trip table if it does not exist
func EnsureTripTable(ctx context.Context, db *sql.DB, table string) error {
	qt, err := quoteTable(table)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+qt+` (
		ride_id TEXT,
		start_station_id TEXT,
		end_station_id TEXT,
		started_at TEXT,
		ended_at TEXT
	)`)
	if err != nil {
		return fmt.Errorf("failed to create trip table: %w", err)
	}
	return nil
}

// LoadTripsSQL reads every trip row from table. NULL columns become "" and
// NULL timestamps are rejected per trip by the index.
func LoadTripsSQL(ctx context.Context, db *sql.DB, table string) ([]TripRecord, error) {
	qt, err := quoteTable(table)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT
		COALESCE(ride_id, ''), COALESCE(start_station_id, ''), COALESCE(end_station_id, ''),
		COALESCE(CAST(started_at AS TEXT), ''), COALESCE(CAST(ended_at AS TEXT), '')
		FROM `+qt)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var trips []TripRecord
	for rows.Next() {
		var t TripRecord
		if err := rows.Scan(&t.RideID, &t.StartStationID, &t.EndStationID, &t.StartedAt, &t.EndedAt); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}
	return trips, nil
}

// WriteTripsSQL inserts trips into table inside one transaction
func WriteTripsSQL(ctx context.Context, db *sql.DB, table string, trips []TripRecord) error {
	if err := EnsureTripTable(ctx, db, table); err != nil {
		return err
	}
	qt, _ := quoteTable(table)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+qt+`
		(ride_id, start_station_id, end_station_id, started_at, ended_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trips {
		if _, err := stmt.ExecContext(ctx, t.RideID, t.StartStationID, t.EndStationID, t.StartedAt, t.EndedAt); err != nil {
			return fmt.Errorf("insert trip %s: %w", t.RideID, err)
		}
	}
	return tx.Commit()
}
