package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay is the number of minute-of-day buckets.
const MinutesPerDay = 1440

// AnyTimeLabel is shown when no time filter is applied.
const AnyTimeLabel = "(any time)"

// ErrUnparsableTimestamp is returned when no known layout matches.
var ErrUnparsableTimestamp = errors.New("unparsable timestamp")

// timestampLayouts covers trip exports (space separated, optional fraction),
// RFC3339 and Postgres timestamptz text output.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04",
}

// ParseTimestamp parses a trip timestamp. The wall clock is kept as written,
// no zone conversion is applied.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparsableTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableTimestamp, s)
}

// MinuteOfDay returns hour*60+minute of t's wall clock.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatMinute renders a minute-of-day as a short 12-hour label ("3:04 PM").
// Negative values mean no filter and render AnyTimeLabel.
func FormatMinute(minute int) string {
	if minute < 0 {
		return AnyTimeLabel
	}
	minute %= MinutesPerDay
	t := time.Date(2000, 1, 1, minute/60, minute%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

// Iso8601FromTime formats t in ISO8601 (UTC)
func Iso8601FromTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
