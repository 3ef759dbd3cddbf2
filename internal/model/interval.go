package model

import (
	"fmt"
	"time"
)

// Interval is the bar granularity tag used by the barhist API ("1", "5", ..., "1d").
// Decoding keeps whatever tag the API sent; ParseInterval checks it against
// the catalogue.
type Interval string

const (
	OneMinute      Interval = "1"
	FiveMinutes    Interval = "5"
	FifteenMinutes Interval = "15"
	HalfHourly     Interval = "30"
	Hourly         Interval = "60"
	TwoHourly      Interval = "120"
	FourHourly     Interval = "240"
	SixHourly      Interval = "360"
	TwelveHourly   Interval = "720"
	Daily          Interval = "1d"
	Weekly         Interval = "1w"
	Monthly        Interval = "1m"
)

var intervalDurations = map[Interval]time.Duration{
	OneMinute:      time.Minute,
	FiveMinutes:    5 * time.Minute,
	FifteenMinutes: 15 * time.Minute,
	HalfHourly:     30 * time.Minute,
	Hourly:         time.Hour,
	TwoHourly:      2 * time.Hour,
	FourHourly:     4 * time.Hour,
	SixHourly:      6 * time.Hour,
	TwelveHourly:   12 * time.Hour,
	Daily:          24 * time.Hour,
	Weekly:         7 * 24 * time.Hour,
	Monthly:        30 * 24 * time.Hour, // the API does not use calendar months
}

// Intervals returns the catalogue in ascending order.
func Intervals() []Interval {
	return []Interval{
		OneMinute, FiveMinutes, FifteenMinutes, HalfHourly, Hourly, TwoHourly,
		FourHourly, SixHourly, TwelveHourly, Daily, Weekly, Monthly,
	}
}

// ParseInterval returns the catalogue entry for tag.
func ParseInterval(tag string) (Interval, error) {
	iv := Interval(tag)
	if !iv.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedInterval, tag)
	}
	return iv, nil
}

// Known reports whether i is in the catalogue.
func (i Interval) Known() bool {
	_, ok := intervalDurations[i]
	return ok
}

// Duration returns the bar length, or 0 for an unknown tag.
func (i Interval) Duration() time.Duration {
	return intervalDurations[i]
}

func (i Interval) String() string { return string(i) }
