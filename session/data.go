package session

import (
	"time"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/config"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/dataset"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/log"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/traffic"
)

// Domain policies for the radius scale
const (
	DomainFiltered   = "filtered"
	DomainUnfiltered = "unfiltered"
)

// Data is everything derived once per dataset load. It is shared read-only
// by all sessions of a system.
type Data struct {
	System   string
	Index    *traffic.TripIndex
	Stations []traffic.Station // base stations, zero counts
	Baseline []traffic.Station // whole-day counts
	LoadedAt time.Time
}

// NewData indexes a loaded dataset
func NewData(ds *dataset.Dataset) *Data {
	idx := traffic.BuildIndex(ds.Trips)
	if n := len(idx.Rejected()); n > 0 {
		log.Warnw("trips with malformed timestamps excluded",
			"system", ds.System, "rejected", n, "first", idx.Rejected()[0].Error())
	}
	base := traffic.NewStations(ds.Stations)
	d := &Data{
		System:   ds.System,
		Index:    idx,
		Stations: base,
		Baseline: traffic.DeriveStations(base, traffic.Aggregate(idx.Trips())),
		LoadedAt: ds.LoadedAt,
	}
	log.Infow("trip index built", "system", ds.System, "trips", idx.Len(), "stations", len(base))
	return d
}

// Options controls how passes scale radii
type Options struct {
	Radius       traffic.RadiusRange
	DomainPolicy string
}

// DefaultOptions uses the default radius range and the filtered domain
var DefaultOptions = Options{Radius: traffic.DefaultRadiusRange, DomainPolicy: DomainFiltered}

// OptionsFromConfig builds pass options from the view settings
func OptionsFromConfig(v config.ViewConfig) Options {
	opts := DefaultOptions
	if v.MaxRadius > 0 {
		opts.Radius = traffic.RadiusRange{Max: v.MaxRadius, FilteredMin: v.FilteredMinRadius}
	}
	if v.DomainPolicy != "" {
		opts.DomainPolicy = v.DomainPolicy
	}
	return opts
}

// View is the derived state of one window
type View struct {
	Window   traffic.Window
	Stations []traffic.ScaledStation
	Summary  traffic.Summary
	Scale    traffic.RadiusScale
}

// Compute runs window, aggregate and scale for w. It has no side effects.
func Compute(d *Data, w traffic.Window, opts Options) View {
	counts := traffic.AggregateWindow(d.Index, w)
	stations := traffic.DeriveStations(d.Stations, counts)

	domain := stations
	if opts.DomainPolicy == DomainUnfiltered {
		domain = d.Baseline
	}
	scale := traffic.NewRadiusScale(domain, w.Bounded(), opts.Radius)

	return View{
		Window:   w,
		Stations: traffic.Scale(stations, scale),
		Summary:  traffic.Summarize(counts, stations),
		Scale:    scale,
	}
}
