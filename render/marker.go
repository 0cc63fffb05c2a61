package render

import (
	"fmt"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/traffic"
)

// Point is a projected screen position in pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Marker is the rendered form of one station
type Marker struct {
	StationID      string  `json:"stationId"`
	Name           string  `json:"name,omitempty"`
	Lon            float64 `json:"lon"`
	Lat            float64 `json:"lat"`
	Position       Point   `json:"position"`
	Radius         float64 `json:"radius"`
	Visible        bool    `json:"visible"`
	DepartureRatio float64 `json:"departureRatio"`
	Tooltip        string  `json:"tooltip"`
	TotalTraffic   int     `json:"totalTraffic"`
	Departures     int     `json:"departures"`
	Arrivals       int     `json:"arrivals"`
}

// Tooltip formats the hover text of a station
func Tooltip(st traffic.Station) string {
	return fmt.Sprintf("%d trips (%d departures, %d arrivals)", st.TotalTraffic, st.Departures, st.Arrivals)
}

// apply writes the derived attributes of st onto m
func (m *Marker) apply(st traffic.ScaledStation, proj Projector) {
	m.StationID = st.ID
	m.Name = st.Name
	m.Lon, m.Lat = st.Lon, st.Lat
	m.Position = proj.Project(st.Lon, st.Lat)
	m.Radius = st.Radius
	m.Visible = st.TotalTraffic > 0
	m.DepartureRatio = st.DepartureRatio
	m.Tooltip = Tooltip(st.Station)
	m.TotalTraffic = st.TotalTraffic
	m.Departures = st.Departures
	m.Arrivals = st.Arrivals
}
