package traffic

// Counts maps station ids to arrivals and departures. Ids without a base
// station are kept; they simply never become markers.
type Counts struct {
	Arrivals   map[string]int
	Departures map[string]int
}

// Aggregate counts end station ids as arrivals and start station ids as
// departures across one trip subset.
func Aggregate(trips []*Trip) Counts {
	return Counts{
		Arrivals:   CountArrivals(trips),
		Departures: CountDepartures(trips),
	}
}

// CountArrivals counts trips per end station
func CountArrivals(trips []*Trip) map[string]int {
	out := make(map[string]int)
	for _, t := range trips {
		out[t.EndStationID]++
	}
	return out
}

// CountDepartures counts trips per start station
func CountDepartures(trips []*Trip) map[string]int {
	out := make(map[string]int)
	for _, t := range trips {
		out[t.StartStationID]++
	}
	return out
}

// AggregateWindow counts departures over trips starting in w and arrivals
// over trips ending in w. For the unbounded window this equals
// Aggregate(idx.Trips()).
func AggregateWindow(idx *TripIndex, w Window) Counts {
	return Counts{
		Arrivals:   CountArrivals(idx.SelectArrivals(w)),
		Departures: CountDepartures(idx.SelectDepartures(w)),
	}
}

// DeriveStations returns a new slice with one station per base station and
// the counts of c. base is never modified.
func DeriveStations(base []Station, c Counts) []Station {
	out := make([]Station, len(base))
	for i, st := range base {
		st.Arrivals = c.Arrivals[st.ID]
		st.Departures = c.Departures[st.ID]
		st.TotalTraffic = st.Arrivals + st.Departures
		out[i] = st
	}
	return out
}
