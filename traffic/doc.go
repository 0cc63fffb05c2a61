/*
Package traffic turns a trip log into per-station statistics for a
time-of-day window.

A pass runs in four steps, all pure functions over immutable inputs:

	idx := traffic.BuildIndex(ds.Trips)          // once per load
	base := traffic.NewStations(ds.Stations)     // once per load

	w, _ := traffic.NewWindow(480)               // 7:00 AM .. 8:59 AM
	counts := traffic.AggregateWindow(idx, w)
	stations := traffic.DeriveStations(base, counts)
	scale := traffic.NewRadiusScale(stations, w.Bounded(), traffic.DefaultRadiusRange)
	scaled := traffic.Scale(stations, scale)

# Minute buckets

Every accepted trip is placed in one of 1440 minute-of-day buckets by its
start time and in one by its end time. A window selects 120 consecutive
buckets (center-60 through center+59) and wraps across midnight, so a
query touches only the trips it returns.

# Malformed timestamps

A trip whose started_at or ended_at cannot be parsed is left out of both
bucket arrays and of the full trip log. BuildIndex never fails as a whole;
the rejected rows are available from Rejected.
*/
package traffic
