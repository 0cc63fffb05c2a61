package traffic

import (
	"errors"
	"fmt"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/dataset"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/utils"
)

// MinutesPerDay is the number of minute-of-day buckets
const MinutesPerDay = utils.MinutesPerDay

// ErrMalformedTimestamp marks a trip whose timestamp has no hour/minute
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// MalformedTimestampError describes one rejected trip
type MalformedTimestampError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("trip %d: malformed %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *MalformedTimestampError) Is(target error) bool { return target == ErrMalformedTimestamp }

func (e *MalformedTimestampError) Unwrap() error { return e.Err }

// Buckets holds trip references per minute of day
type Buckets [MinutesPerDay][]*Trip

// TripIndex stores the trip log partitioned by start and end minute
type TripIndex struct {
	trips    []*Trip  // accepted trips in input order
	byStart  *Buckets // minute -> trips starting in that minute
	byEnd    *Buckets // minute -> trips ending in that minute
	rejected []error
}

// ParseTrip parses both timestamps of a trip record. row is only used for
// error reporting.
func ParseTrip(row int, r dataset.TripRecord) (*Trip, error) {
	started, err := utils.ParseTimestamp(r.StartedAt)
	if err != nil {
		return nil, &MalformedTimestampError{Row: row, Field: "started_at", Value: r.StartedAt, Err: err}
	}
	ended, err := utils.ParseTimestamp(r.EndedAt)
	if err != nil {
		return nil, &MalformedTimestampError{Row: row, Field: "ended_at", Value: r.EndedAt, Err: err}
	}
	return &Trip{
		StartStationID: r.StartStationID,
		EndStationID:   r.EndStationID,
		StartedAt:      started,
		EndedAt:        ended,
		StartMinute:    utils.MinuteOfDay(started),
		EndMinute:      utils.MinuteOfDay(ended),
	}, nil
}

// BuildIndex parses every record once and assigns it to its start and end
// buckets. Trips with malformed timestamps are excluded from both indices.
func BuildIndex(records []dataset.TripRecord) *TripIndex {
	idx := &TripIndex{
		trips:   make([]*Trip, 0, len(records)),
		byStart: &Buckets{},
		byEnd:   &Buckets{},
	}
	for i, r := range records {
		trip, err := ParseTrip(i, r)
		if err != nil {
			idx.rejected = append(idx.rejected, err)
			continue
		}
		idx.trips = append(idx.trips, trip)
		idx.byStart[trip.StartMinute] = append(idx.byStart[trip.StartMinute], trip)
		idx.byEnd[trip.EndMinute] = append(idx.byEnd[trip.EndMinute], trip)
	}
	return idx
}

// Trips returns the full accepted trip log
func (x *TripIndex) Trips() []*Trip { return x.trips }

// Len returns the number of accepted trips
func (x *TripIndex) Len() int { return len(x.trips) }

// StartBuckets returns trips bucketed by start minute
func (x *TripIndex) StartBuckets() *Buckets { return x.byStart }

// EndBuckets returns trips bucketed by end minute
func (x *TripIndex) EndBuckets() *Buckets { return x.byEnd }

// Rejected returns one *MalformedTimestampError per excluded trip
func (x *TripIndex) Rejected() []error { return x.rejected }
