// Package metrics derives per-device travel metrics from a trail.
package metrics

import (
	"github.com/davitra/fleetboard/internal/models"
	"github.com/davitra/fleetboard/internal/spatial"
)

const msPerHour = 3_600_000

// Compute turns a trail into device metrics.
//
// Distance is the sum of haversine distances over consecutive sample pairs.
// Duration is the span between the first and last sample. An empty or
// single-sample trail yields all zeros, and a zero-duration trail yields zero
// speed rather than a division by zero.
func Compute(t models.Trail) models.DeviceMetrics {
	if len(t) == 0 {
		return models.DeviceMetrics{}
	}

	var totalKm float64
	for i := 1; i < len(t); i++ {
		totalKm += spatial.Haversine(t[i-1].Lat, t[i-1].Lon, t[i].Lat, t[i].Lon)
	}

	durationHours := float64(t[len(t)-1].Ts-t[0].Ts) / msPerHour

	var speedKmh float64
	if durationHours > 0 {
		speedKmh = totalKm / durationHours
	}

	return models.DeviceMetrics{
		TotalDistanceKm: totalKm,
		DurationHours:   durationHours,
		AverageSpeedKmh: speedKmh,
	}
}
