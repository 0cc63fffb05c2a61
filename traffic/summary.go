package traffic

import "gonum.org/v1/gonum/stat"

// Summary describes one window over the whole station collection
type Summary struct {
	TripsStarted   int     `json:"tripsStarted"`
	TripsEnded     int     `json:"tripsEnded"`
	ActiveStations int     `json:"activeStations"`
	MaxTraffic     float64 `json:"maxTraffic"`
	MeanTraffic    float64 `json:"meanTraffic"`
}

// Summarize reports trip totals from c (unknown stations included) and
// traffic statistics over the derived stations.
func Summarize(c Counts, stations []Station) Summary {
	var s Summary
	for _, n := range c.Departures {
		s.TripsStarted += n
	}
	for _, n := range c.Arrivals {
		s.TripsEnded += n
	}
	if len(stations) == 0 {
		return s
	}
	totals := make([]float64, len(stations))
	for i, st := range stations {
		totals[i] = float64(st.TotalTraffic)
		if st.TotalTraffic > 0 {
			s.ActiveStations++
		}
	}
	s.MaxTraffic = MaxTraffic(stations)
	s.MeanTraffic = stat.Mean(totals, nil)
	return s
}
