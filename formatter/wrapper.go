package formatter

import (
	"time"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/render"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/session"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/traffic"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/utils"
)

// WindowInfo describes the filter a response was computed for
type WindowInfo struct {
	Minute  int    `json:"minute"`
	Label   string `json:"label"`
	Bounded bool   `json:"bounded"`
	From    *int   `json:"from,omitempty"` // first minute, inclusive; nil when unbounded
	To      *int   `json:"to,omitempty"`   // last minute, exclusive; nil when unbounded
}

// StationEntry is one station of a stateless view
type StationEntry struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	Lon            float64 `json:"lon"`
	Lat            float64 `json:"lat"`
	Capacity       int     `json:"capacity,omitempty"`
	Arrivals       int     `json:"arrivals"`
	Departures     int     `json:"departures"`
	TotalTraffic   int     `json:"totalTraffic"`
	Radius         float64 `json:"radius"`
	DepartureRatio float64 `json:"departureRatio"`
	Tooltip        string  `json:"tooltip"`
}

// Response is the envelope shared by every traffic endpoint
type Response struct {
	ResponseTimestamp string           `json:"responseTimestamp"`
	System            string           `json:"system"`
	SessionID         string           `json:"sessionId,omitempty"`
	Window            WindowInfo       `json:"window"`
	Summary           traffic.Summary  `json:"summary"`
	Stations          []StationEntry   `json:"stations,omitempty"`
	Markers           []*render.Marker `json:"markers,omitempty"`
	Diff              *render.Diff     `json:"diff,omitempty"`
}

// BuildWindowInfo converts a window into its wire form
func BuildWindowInfo(w traffic.Window) WindowInfo {
	info := WindowInfo{Minute: w.Minute(), Label: w.Label(), Bounded: w.Bounded()}
	if w.Bounded() {
		from, to := w.Bounds()
		info.From, info.To = &from, &to
	}
	return info
}

func newResponse(system string, v session.View, now time.Time) *Response {
	return &Response{
		ResponseTimestamp: utils.Iso8601FromTime(now),
		System:            system,
		Window:            BuildWindowInfo(v.Window),
		Summary:           v.Summary,
	}
}

// WrapStations wraps a stateless view
func WrapStations(system string, v session.View, now time.Time) *Response {
	res := newResponse(system, v, now)
	res.Stations = make([]StationEntry, len(v.Stations))
	for i, st := range v.Stations {
		res.Stations[i] = StationEntry{
			ID:             st.ID,
			Name:           st.Name,
			Lon:            st.Lon,
			Lat:            st.Lat,
			Capacity:       st.Capacity,
			Arrivals:       st.Arrivals,
			Departures:     st.Departures,
			TotalTraffic:   st.TotalTraffic,
			Radius:         st.Radius,
			DepartureRatio: st.DepartureRatio,
			Tooltip:        render.Tooltip(st.Station),
		}
	}
	return res
}

// WrapMarkers wraps the marker set of a session after its latest pass.
// Markers are copied so the response does not alias session state.
func WrapMarkers(s *session.Session, now time.Time) *Response {
	res := newResponse(s.System(), s.View(), now)
	res.SessionID = s.ID.String()
	markers := s.Markers().Markers()
	res.Markers = make([]*render.Marker, len(markers))
	for i, m := range markers {
		cp := *m
		res.Markers[i] = &cp
	}
	diff := s.Markers().Diff()
	res.Diff = &diff
	return res
}
