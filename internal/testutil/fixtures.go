// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/dataset"
)

// StationsJSON is a small station feed in the envelope form
const StationsJSON = `{
  "last_updated": 1709280000,
  "data": {
    "stations": [
      {"short_name": "A32000", "name": "Fan Pier", "lon": -71.044624, "lat": 42.353391, "capacity": 15},
      {"short_name": "M32006", "name": "MIT at Mass Ave / Amherst St", "lon": -71.093871, "lat": 42.358100, "capacity": 27},
      {"short_name": "M32011", "name": "Central Square", "lon": "-71.103500", "lat": "42.365000"},
      {"short_name": "D32007", "name": "Copley Square", "lon": -71.076700, "lat": 42.349900, "capacity": 19}
    ]
  }
}`

// TripsCSV is a trip log in the Bluebikes export layout
const TripsCSV = `ride_id,rideable_type,started_at,ended_at,start_station_name,start_station_id,end_station_name,end_station_id,member_casual
R1,classic_bike,2024-03-01 08:05:12.100,2024-03-01 08:21:40.000,Fan Pier,A32000,MIT at Mass Ave / Amherst St,M32006,member
R2,electric_bike,2024-03-01 08:30:00,2024-03-01 08:44:00,MIT at Mass Ave / Amherst St,M32006,Central Square,M32011,casual
R3,classic_bike,2024-03-01 17:10:00,2024-03-01 17:35:00,Central Square,M32011,Fan Pier,A32000,member
R4,classic_bike,2024-03-01 23:50:00,2024-03-02 00:10:00,Copley Square,D32007,Somewhere Else,X99999,member
R5,classic_bike,not-a-time,2024-03-01 09:00:00,Fan Pier,A32000,Copley Square,D32007,member
`

// Day is the calendar day used by generated trips
var Day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// Timestamp renders a minute-of-day on Day in the export layout
func Timestamp(minute int) string {
	return Day.Add(time.Duration(minute) * time.Minute).Format("2006-01-02 15:04:05")
}

// Trip builds a trip record starting and ending at the given minutes of day
func Trip(start, end string, startMinute, endMinute int) dataset.TripRecord {
	return dataset.TripRecord{
		RideID:         fmt.Sprintf("%s-%s-%d-%d", start, end, startMinute, endMinute),
		StartStationID: start,
		EndStationID:   end,
		StartedAt:      Timestamp(startMinute),
		EndedAt:        Timestamp(endMinute),
	}
}

// Stations returns base station records matching StationsJSON
func Stations() []dataset.StationRecord {
	return []dataset.StationRecord{
		{ShortName: "A32000", Name: "Fan Pier", Lon: -71.044624, Lat: 42.353391, Capacity: 15},
		{ShortName: "M32006", Name: "MIT at Mass Ave / Amherst St", Lon: -71.093871, Lat: 42.358100, Capacity: 27},
		{ShortName: "M32011", Name: "Central Square", Lon: -71.1035, Lat: 42.365},
		{ShortName: "D32007", Name: "Copley Square", Lon: -71.0767, Lat: 42.3499, Capacity: 19},
	}
}

// Dataset returns an in-memory dataset with the fixture stations and trips
func Dataset(trips ...dataset.TripRecord) *dataset.Dataset {
	return &dataset.Dataset{
		System:   "test",
		Stations: Stations(),
		Trips:    trips,
		LoadedAt: Day,
	}
}

// WriteFile writes content under dir and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}
