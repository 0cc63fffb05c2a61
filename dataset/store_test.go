package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/config"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/dataset"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/testutil"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/traffic"
)

func fixtureTrips() []dataset.TripRecord {
	return []dataset.TripRecord{
		testutil.Trip("A32000", "M32006", 485, 501),
		testutil.Trip("M32006", "M32011", 510, 524),
		testutil.Trip("D32007", "", 1430, 10),
	}
}

func TestParquet_WriteThenRead(t *testing.T) {
	trips := fixtureTrips()

	var buf bytes.Buffer
	if err := dataset.WriteTripsParquet(&buf, trips); err != nil {
		t.Fatalf("WriteTripsParquet failed: %v", err)
	}
	got, err := dataset.ReadTripsParquet(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadTripsParquet failed: %v", err)
	}
	if len(got) != len(trips) {
		t.Fatalf("got %d rows, want %d", len(got), len(trips))
	}
	for i := range trips {
		if got[i] != trips[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], trips[i])
		}
	}
}

func TestLoadFromConfig_Parquet(t *testing.T) {
	dir := t.TempDir()
	tripsPath := filepath.Join(dir, "trips.parquet")
	if err := dataset.WriteTripsParquetFile(tripsPath, fixtureTrips()); err != nil {
		t.Fatalf("WriteTripsParquetFile failed: %v", err)
	}
	cfg := config.DatasetConfig{
		StationsPath: testutil.WriteFile(t, dir, "stations.json", testutil.StationsJSON),
		TripsPath:    tripsPath,
	}
	ds, err := dataset.LoadFromConfig(context.Background(), "bluebikes", cfg)
	if err != nil {
		t.Fatalf("LoadFromConfig failed: %v", err)
	}
	if len(ds.Trips) != 3 {
		t.Errorf("got %d trips, want 3", len(ds.Trips))
	}
}

func TestSQLite_WriteThenLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trips.db")

	db, err := dataset.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	trips := fixtureTrips()
	if err := dataset.WriteTripsSQL(ctx, db, "trips_2024_03", trips); err != nil {
		t.Fatalf("WriteTripsSQL failed: %v", err)
	}
	// NULL station ids load as empty strings
	if _, err := db.ExecContext(ctx, `INSERT INTO "trips_2024_03" (ride_id, start_station_id, end_station_id, started_at, ended_at)
		VALUES ('dockless', NULL, NULL, '2024-03-01 12:00:00', '2024-03-01 12:30:00')`); err != nil {
		t.Fatalf("insert NULL row failed: %v", err)
	}
	// a NULL timestamp loads as "" and only that trip is rejected
	if _, err := db.ExecContext(ctx, `INSERT INTO "trips_2024_03" (ride_id, start_station_id, end_station_id, started_at, ended_at)
		VALUES ('lost', 'A32000', 'M32006', NULL, '2024-03-01 13:00:00')`); err != nil {
		t.Fatalf("insert NULL timestamp row failed: %v", err)
	}
	db.Close()

	cfg := config.DatasetConfig{
		StationsPath: testutil.WriteFile(t, t.TempDir(), "stations.json", testutil.StationsJSON),
		TripsPath:    path,
		TripsTable:   "trips_2024_03",
	}
	ds, err := dataset.LoadFromConfig(ctx, "bluebikes", cfg)
	if err != nil {
		t.Fatalf("LoadFromConfig failed: %v", err)
	}
	if len(ds.Trips) != 5 {
		t.Fatalf("got %d trips, want 5", len(ds.Trips))
	}
	for i := range trips {
		if ds.Trips[i] != trips[i] {
			t.Errorf("row %d = %+v, want %+v", i, ds.Trips[i], trips[i])
		}
	}
	last := ds.Trips[3]
	if last.StartStationID != "" || last.EndStationID != "" || last.StartedAt != "2024-03-01 12:00:00" {
		t.Errorf("unexpected NULL row: %+v", last)
	}
	if lost := ds.Trips[4]; lost.StartedAt != "" || lost.EndedAt != "2024-03-01 13:00:00" {
		t.Errorf("unexpected NULL timestamp row: %+v", lost)
	}

	idx := traffic.BuildIndex(ds.Trips)
	if idx.Len() != 4 {
		t.Errorf("index holds %d trips, want 4", idx.Len())
	}
	rejected := idx.Rejected()
	if len(rejected) != 1 || !errors.Is(rejected[0], traffic.ErrMalformedTimestamp) {
		t.Errorf("rejected = %v, want one malformed timestamp", rejected)
	}
}

func TestSQLite_RejectsTableNames(t *testing.T) {
	db, err := dataset.OpenSQLite(filepath.Join(t.TempDir(), "trips.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"", "trips; DROP TABLE x", `tr"ips`, "1trips"} {
		_, err := dataset.LoadTripsSQL(context.Background(), db, table)
		if !errors.Is(err, dataset.ErrInvalidTable) {
			t.Errorf("LoadTripsSQL(%q) error = %v, want ErrInvalidTable", table, err)
		}
	}
}

func TestSerializeDataset(t *testing.T) {
	ds := testutil.Dataset(fixtureTrips()...)
	data, err := dataset.SerializeDataset(ds)
	if err != nil {
		t.Fatalf("SerializeDataset failed: %v", err)
	}
	got, err := dataset.DeserializeDataset(data)
	if err != nil {
		t.Fatalf("DeserializeDataset failed: %v", err)
	}
	if got.System != ds.System || !got.LoadedAt.Equal(ds.LoadedAt) || len(got.Stations) != len(ds.Stations) {
		t.Errorf("decoded dataset differs: %+v", got)
	}

	if _, err := dataset.DeserializeDataset([]byte("garbage")); err == nil {
		t.Error("decoding garbage should fail")
	}
}
