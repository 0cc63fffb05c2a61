package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/config"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/log"
)

// Trip log formats
const (
	FormatCSV      = "csv"
	FormatParquet  = "parquet"
	FormatSQLite   = "sqlite"
	FormatPostgres = "postgres"
)

var (
	// ErrDuplicateStation is returned when two stations share a short name
	ErrDuplicateStation = errors.New("duplicate station id")
	// ErrMissingColumn is returned when the trip log lacks a required column
	ErrMissingColumn = errors.New("missing trip column")
	// ErrUnknownFormat is returned when the trip log format cannot be determined
	ErrUnknownFormat = errors.New("unknown trip log format")
	// ErrStaleCache is returned when a dataset cache does not match the requested sources
	ErrStaleCache = errors.New("stale dataset cache")
)

var requiredTripColumns = []string{"start_station_id", "end_station_id", "started_at", "ended_at"}

var validate = validator.New()

// LoadFromConfig loads the station feed and trip log described by cfg.
// When cfg.CachePath points at a gob cache built for the same system and
// sources it is used instead, and a fresh load refreshes the cache.
func LoadFromConfig(ctx context.Context, system string, cfg config.DatasetConfig) (*Dataset, error) {
	if cfg.CachePath != "" {
		ds, err := DeserializeDatasetFromFile(cfg.CachePath)
		if err == nil {
			err = CheckCache(ds, system, cfg)
		}
		switch {
		case err == nil:
			log.Infow("dataset loaded from cache", "path", cfg.CachePath, "stations", len(ds.Stations), "trips", len(ds.Trips))
			return ds, nil
		case errors.Is(err, ErrStaleCache):
			log.Infow("dataset cache is stale, reloading", "path", cfg.CachePath, "reason", err)
		case !errors.Is(err, os.ErrNotExist):
			log.Warnw("ignoring unreadable dataset cache", "path", cfg.CachePath, "error", err)
		}
	}

	loadedAt := time.Now().UTC()
	stations, err := LoadStationsFile(cfg.StationsPath)
	if err != nil {
		return nil, err
	}
	trips, err := loadTrips(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		System:   system,
		Sources:  sourcesOf(cfg),
		Stations: stations,
		Trips:    trips,
		LoadedAt: loadedAt,
	}
	log.Infow("dataset loaded", "system", system, "stations", len(stations), "trips", len(trips))

	if cfg.CachePath != "" {
		if err := SerializeDatasetToFile(ds, cfg.CachePath); err != nil {
			log.Warnw("failed to write dataset cache", "path", cfg.CachePath, "error", err)
		}
	}
	return ds, nil
}

func sourcesOf(cfg config.DatasetConfig) []string {
	if cfg.TripsFormat == FormatPostgres {
		return []string{cfg.StationsPath, FormatPostgres + ":" + cfg.TripsTable}
	}
	return []string{cfg.StationsPath, cfg.TripsPath}
}

// CheckCache reports ErrStaleCache when ds was built for another system or
// other sources, or when a source file changed after ds was loaded. Sources
// that no longer exist do not invalidate the cache.
func CheckCache(ds *Dataset, system string, cfg config.DatasetConfig) error {
	if ds.System != system {
		return fmt.Errorf("%w: built for system %q", ErrStaleCache, ds.System)
	}
	if !slices.Equal(ds.Sources, sourcesOf(cfg)) {
		return fmt.Errorf("%w: built from %v", ErrStaleCache, ds.Sources)
	}
	for _, src := range ds.Sources {
		if strings.HasPrefix(src, FormatPostgres+":") {
			continue
		}
		info, err := os.Stat(src)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStaleCache, err)
		}
		if info.ModTime().After(ds.LoadedAt) {
			return fmt.Errorf("%w: %s modified at %s", ErrStaleCache, src, info.ModTime().UTC().Format(time.RFC3339))
		}
	}
	return nil
}

func loadTrips(ctx context.Context, cfg config.DatasetConfig) ([]TripRecord, error) {
	format, err := TripsFormat(cfg)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return LoadTripsCSVFile(cfg.TripsPath)
	case FormatParquet:
		return ReadTripsParquetFile(cfg.TripsPath)
	case FormatSQLite:
		db, err := OpenSQLite(cfg.TripsPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return LoadTripsSQL(ctx, db, cfg.TripsTable)
	case FormatPostgres:
		return LoadTripsPostgres(ctx, cfg.PostgresURL, cfg.TripsTable)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// TripsFormat returns the configured trip log format, inferring it from the
// file extension when unset.
func TripsFormat(cfg config.DatasetConfig) (string, error) {
	if cfg.TripsFormat != "" {
		return cfg.TripsFormat, nil
	}
	switch strings.ToLower(filepath.Ext(cfg.TripsPath)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.TripsPath)
}

// LoadStationsFile reads a station feed from disk
func LoadStationsFile(path string) ([]StationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station feed: %w", err)
	}
	defer f.Close()
	stations, err := LoadStationsJSON(f)
	if err != nil {
		return nil, fmt.Errorf("station feed %s: %w", path, err)
	}
	return stations, nil
}

// LoadStationsJSON decodes and validates a station feed. Both a bare array
// and the {"data":{"stations":[...]}} envelope are accepted.
func LoadStationsJSON(r io.Reader) ([]StationRecord, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw []map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode stations: %w", err)
		}
	} else {
		var envelope struct {
			Data struct {
				Stations []map[string]any `json:"stations"`
			} `json:"data"`
		}
		if err := dec.Decode(&envelope); err != nil {
			return nil, fmt.Errorf("decode stations: %w", err)
		}
		raw = envelope.Data.Stations
	}

	stations := make([]StationRecord, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, m := range raw {
		st, err := stationFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("station %d: %w", i, err)
		}
		if err := validate.Struct(st); err != nil {
			return nil, fmt.Errorf("station %d (%q): %w", i, st.ShortName, err)
		}
		if _, dup := seen[st.ShortName]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStation, st.ShortName)
		}
		seen[st.ShortName] = struct{}{}
		stations = append(stations, st)
	}
	return stations, nil
}

func stationFromMap(m map[string]any) (StationRecord, error) {
	st := StationRecord{
		ShortName: toStringFallback(m["short_name"], toStringFallback(m["shortName"], "")),
		Name:      toStringFallback(m["name"], ""),
	}
	var err error
	if st.Lon, err = toFloat(m["lon"]); err != nil {
		return st, fmt.Errorf("lon: %w", err)
	}
	if st.Lat, err = toFloat(m["lat"]); err != nil {
		return st, fmt.Errorf("lat: %w", err)
	}
	if v, ok := m["capacity"]; ok && v != nil {
		if st.Capacity, err = toInt(v); err != nil {
			return st, fmt.Errorf("capacity: %w", err)
		}
	}
	return st, nil
}

// LoadTripsCSVFile reads a trip log CSV from disk
func LoadTripsCSVFile(path string) ([]TripRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trip log: %w", err)
	}
	defer f.Close()
	trips, err := LoadTripsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("trip log %s: %w", path, err)
	}
	return trips, nil
}

// LoadTripsCSV reads trip rows by header name. Rows the CSV reader cannot
// split are skipped; timestamp validity is checked later by the index.
func LoadTripsCSV(r io.Reader) ([]TripRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}

	idx := makeIndex(header)
	for _, col := range requiredTripColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var trips []TripRecord
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		trips = append(trips, TripRecord{
			RideID:         getField(record, idx, "ride_id"),
			StartStationID: getField(record, idx, "start_station_id"),
			EndStationID:   getField(record, idx, "end_station_id"),
			StartedAt:      getField(record, idx, "started_at"),
			EndedAt:        getField(record, idx, "ended_at"),
		})
	}
	if skipped > 0 {
		log.Warnw("skipped unreadable trip rows", "rows", skipped)
	}
	return trips, nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

// Utility converters for flexible JSON values
func toStringFallback(v any, fallback string) string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case json.Number:
		return t.String()
	}
	return fallback
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	case json.Number:
		return t.Float64()
	default:
		return 0, errors.New("not a float")
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	case json.Number:
		i64, err := t.Int64()
		return int(i64), err
	default:
		return 0, errors.New("not an int")
	}
}
