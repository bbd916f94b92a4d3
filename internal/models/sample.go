package models

import "time"

// Sample is a single location observation for one device.
// Immutable once constructed.
type Sample struct {
	Ts  int64   `json:"ts"` // Unix timestamp in milliseconds
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Time returns the sample timestamp as a local time.Time.
func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Ts)
}

// Trail is an ordered sequence of samples for one device, ordered by
// non-decreasing timestamp. A Trail may be empty; when non-empty, the first
// and last samples define the observed time span. Trails are built fresh per
// request and never mutated in place.
type Trail []Sample

// Span returns the first and last sample of the trail.
// ok is false for an empty trail.
func (t Trail) Span() (first, last Sample, ok bool) {
	if len(t) == 0 {
		return Sample{}, Sample{}, false
	}
	return t[0], t[len(t)-1], true
}

// DeviceMetrics is derived from a Trail once per report cycle.
// All values retain full precision; rounding to two decimals happens at the
// presentation layer only.
type DeviceMetrics struct {
	TotalDistanceKm float64 `json:"totalDistanceKm"`
	DurationHours   float64 `json:"durationHours"`
	AverageSpeedKmh float64 `json:"averageSpeedKmh"`
}
