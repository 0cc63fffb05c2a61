package traffic

import (
	"errors"
	"fmt"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/utils"
)

// WindowRadius is the half width of a filter window in minutes
const WindowRadius = 60

// UnboundedMinute is the wire value for "no time filter"
const UnboundedMinute = -1

// ErrInvalidMinute is returned for filter values outside {-1} ∪ [0,1439]
var ErrInvalidMinute = errors.New("filter minute must be -1 or within [0,1439]")

// Window is either unbounded or a center minute with radius WindowRadius
type Window struct {
	center  int
	bounded bool
}

// Unbounded returns the window that applies no time filter
func Unbounded() Window { return Window{center: UnboundedMinute} }

// NewWindow builds a window from a filter value; -1 yields Unbounded
func NewWindow(minute int) (Window, error) {
	if minute == UnboundedMinute {
		return Unbounded(), nil
	}
	if minute < 0 || minute >= MinutesPerDay {
		return Window{}, fmt.Errorf("%w: %d", ErrInvalidMinute, minute)
	}
	return Window{center: minute, bounded: true}, nil
}

// Bounded reports whether a time filter is active
func (w Window) Bounded() bool { return w.bounded }

// Minute returns the filter value: the center minute or -1
func (w Window) Minute() int {
	if !w.bounded {
		return UnboundedMinute
	}
	return w.center
}

// Label renders the filter for display ("8:00 AM" or "(any time)")
func (w Window) Label() string { return utils.FormatMinute(w.Minute()) }

// Bounds returns the half-open bucket range [lo, hi) modulo 1440.
// lo > hi means the window wraps past midnight.
func (w Window) Bounds() (lo, hi int) {
	lo = (w.center - WindowRadius + MinutesPerDay) % MinutesPerDay
	hi = (w.center + WindowRadius) % MinutesPerDay
	return lo, hi
}

// Contains reports whether a minute of day falls inside the window
func (w Window) Contains(minute int) bool {
	if !w.bounded {
		return true
	}
	lo, hi := w.Bounds()
	if lo <= hi {
		return minute >= lo && minute < hi
	}
	return minute >= lo || minute < hi
}

// Select concatenates the buckets covered by w. Unbounded windows return
// all, the full trip log, unchanged.
func Select(buckets *Buckets, all []*Trip, w Window) []*Trip {
	if !w.bounded {
		return all
	}
	lo, hi := w.Bounds()
	if lo <= hi {
		return concat(buckets[lo:hi])
	}
	return concat(buckets[lo:MinutesPerDay], buckets[0:hi])
}

func concat(ranges ...[][]*Trip) []*Trip {
	n := 0
	for _, r := range ranges {
		for _, b := range r {
			n += len(b)
		}
	}
	out := make([]*Trip, 0, n)
	for _, r := range ranges {
		for _, b := range r {
			out = append(out, b...)
		}
	}
	return out
}

// SelectDepartures returns trips starting inside w
func (x *TripIndex) SelectDepartures(w Window) []*Trip {
	return Select(x.byStart, x.trips, w)
}

// SelectArrivals returns trips ending inside w
func (x *TripIndex) SelectArrivals(w Window) []*Trip {
	return Select(x.byEnd, x.trips, w)
}
