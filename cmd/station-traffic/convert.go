package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/config"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/dataset"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/log"
)

// convert writes the loaded trip log to a parquet file or a SQLite table,
// chosen by the extension of out. This is CLI-specific logic and is not
// part of the core library.
func convert(ctx context.Context, ds *dataset.Dataset, out, table string) error {
	if out == "" {
		return errors.New("-out is required for convert")
	}
	if table == "" {
		table = config.DefaultTripsTable
	}

	switch strings.ToLower(filepath.Ext(out)) {
	case ".parquet":
		if err := dataset.WriteTripsParquetFile(out, ds.Trips); err != nil {
			return err
		}
	case ".db", ".sqlite", ".sqlite3":
		db, err := dataset.OpenSQLite(out)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := dataset.WriteTripsSQL(ctx, db, table, ds.Trips); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", dataset.ErrUnknownFormat, out)
	}
	log.Infow("trip log converted", "system", ds.System, "trips", len(ds.Trips), "out", out)
	return nil
}
