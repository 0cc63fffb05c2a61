package traffic

import (
	"time"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/dataset"
)

// Station is a base station with the counts of one window.
// TotalTraffic is always Arrivals + Departures.
type Station struct {
	ID           string
	Name         string
	Lon          float64
	Lat          float64
	Capacity     int
	Arrivals     int
	Departures   int
	TotalTraffic int
}

// Trip is a parsed trip log row
type Trip struct {
	StartStationID string
	EndStationID   string
	StartedAt      time.Time
	EndedAt        time.Time
	StartMinute    int
	EndMinute      int
}

// NewStations converts validated station records into zero-count stations
func NewStations(records []dataset.StationRecord) []Station {
	out := make([]Station, 0, len(records))
	for _, r := range records {
		out = append(out, Station{
			ID:       r.ShortName,
			Name:     r.Name,
			Lon:      r.Lon,
			Lat:      r.Lat,
			Capacity: r.Capacity,
		})
	}
	return out
}
