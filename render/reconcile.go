package render

import (
	"sort"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/traffic"
)

// Projector maps geographic coordinates to screen coordinates
type Projector interface {
	Project(lon, lat float64) Point
}

// ProjectorFunc adapts a function to Projector
type ProjectorFunc func(lon, lat float64) Point

// Project calls f(lon, lat)
func (f ProjectorFunc) Project(lon, lat float64) Point { return f(lon, lat) }

// NilProjector reports whether p cannot project, either because it is a nil
// interface or because it wraps a nil ProjectorFunc.
func NilProjector(p Projector) bool {
	if p == nil {
		return true
	}
	f, ok := p.(ProjectorFunc)
	return ok && f == nil
}

// Diff lists the station ids touched by one reconciliation, each sorted
type Diff struct {
	Entered []string `json:"entered"`
	Updated []string `json:"updated"`
	Exited  []string `json:"exited"`
}

// MarkerSet is the marker collection of one session
type MarkerSet struct {
	byID  map[string]*Marker
	order []*Marker // station order of the latest pass
	diff  Diff
}

// NewMarkerSet returns an empty set
func NewMarkerSet() *MarkerSet {
	return &MarkerSet{byID: map[string]*Marker{}}
}

// Get returns the marker for a station id, nil if absent
func (s *MarkerSet) Get(id string) *Marker {
	if s == nil {
		return nil
	}
	return s.byID[id]
}

// Markers returns the markers in station order
func (s *MarkerSet) Markers() []*Marker {
	if s == nil {
		return nil
	}
	return s.order
}

// Len returns the number of markers
func (s *MarkerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Diff returns the changes that produced this set
func (s *MarkerSet) Diff() Diff {
	if s == nil {
		return Diff{}
	}
	return s.diff
}

// Reconcile joins stations onto prev by station id. New ids get a fresh
// marker, shared ids reuse prev's marker with every attribute rewritten and
// ids missing from stations are dropped. prev may be nil and is not
// modified structurally; its shared markers are updated in place.
func Reconcile(prev *MarkerSet, stations []traffic.ScaledStation, proj Projector) *MarkerSet {
	next := &MarkerSet{
		byID:  make(map[string]*Marker, len(stations)),
		order: make([]*Marker, 0, len(stations)),
	}
	for _, st := range stations {
		if _, dup := next.byID[st.ID]; dup {
			continue
		}
		m := prev.Get(st.ID)
		if m == nil {
			m = &Marker{}
			next.diff.Entered = append(next.diff.Entered, st.ID)
		} else {
			next.diff.Updated = append(next.diff.Updated, st.ID)
		}
		m.apply(st, proj)
		next.byID[st.ID] = m
		next.order = append(next.order, m)
	}
	if prev != nil {
		for id := range prev.byID {
			if _, ok := next.byID[id]; !ok {
				next.diff.Exited = append(next.diff.Exited, id)
			}
		}
	}
	sort.Strings(next.diff.Entered)
	sort.Strings(next.diff.Updated)
	sort.Strings(next.diff.Exited)
	return next
}
