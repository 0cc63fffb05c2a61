package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// ReadTripsParquetFile reads a parquet trip log written with the TripRecord schema
func ReadTripsParquetFile(path string) ([]TripRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trip log: %w", err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat trip log: %w", err)
	}
	return ReadTripsParquet(f, stat.Size())
}

// ReadTripsParquet decodes parquet rows from any io.ReaderAt
func ReadTripsParquet(r io.ReaderAt, size int64) ([]TripRecord, error) {
	rows, err := parquet.Read[TripRecord](r, size)
	if err != nil {
		return nil, fmt.Errorf("read parquet trips: %w", err)
	}
	return rows, nil
}

// WriteTripsParquet encodes trips as parquet
func WriteTripsParquet(w io.Writer, trips []TripRecord) error {
	writer := parquet.NewGenericWriter[TripRecord](w)
	if _, err := writer.Write(trips); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// WriteTripsParquetFile writes trips to a parquet file at path
func WriteTripsParquetFile(path string, trips []TripRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTripsParquet(f, trips); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
