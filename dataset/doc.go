/*
Package dataset is the load boundary for bike-share station feeds and trip logs.

It turns loosely shaped input (station JSON, trip CSV, parquet, SQLite or
Postgres tables) into validated StationRecord and TripRecord values. It does
NOT download anything: callers hand it local paths, readers or connections.

# Basic Usage

	ds, err := dataset.LoadFromConfig(ctx, "bluebikes", cfg.Dataset)
	if err != nil {
	    log.Fatal(err)
	}
	idx := traffic.BuildIndex(ds.Trips)

# Station feed

Both the bare array form and the GBFS-like envelope are accepted:

	{"data": {"stations": [{"short_name": "A32000", "lon": -71.06, "lat": 42.36}]}}

Station ids must be unique and coordinates must be valid WGS84.

# Trip log

Trip timestamps are kept as text here. They are parsed exactly once, when
the trip index is built, so a malformed value only drops that trip.

# Caching

Parse once at startup and keep the Dataset in memory. SerializeDataset and
DeserializeDataset (gob) let a service skip CSV parsing on restart.
*/
package dataset
