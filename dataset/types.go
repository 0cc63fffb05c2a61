package dataset

import "time"

// StationRecord is one entry of the station feed
type StationRecord struct {
	ShortName string  `json:"short_name" validate:"required"`
	Name      string  `json:"name,omitempty"`
	Lon       float64 `json:"lon" validate:"gte=-180,lte=180"`
	Lat       float64 `json:"lat" validate:"gte=-90,lte=90"`
	Capacity  int     `json:"capacity,omitempty" validate:"gte=0"`
}

// TripRecord is one row of the trip log. Timestamps stay unparsed.
type TripRecord struct {
	RideID         string `parquet:"ride_id" json:"ride_id,omitempty"`
	StartStationID string `parquet:"start_station_id" json:"start_station_id"`
	EndStationID   string `parquet:"end_station_id" json:"end_station_id"`
	StartedAt      string `parquet:"started_at" json:"started_at"`
	EndedAt        string `parquet:"ended_at" json:"ended_at"`
}

// Dataset holds everything loaded for one system
type Dataset struct {
	System   string
	Sources  []string // station feed path then trip log path or postgres table
	Stations []StationRecord
	Trips    []TripRecord
	LoadedAt time.Time // taken before the sources were read
}
