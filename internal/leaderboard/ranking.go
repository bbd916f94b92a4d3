// Package leaderboard ranks devices by travel distance.
package leaderboard

import (
	"sort"

	"github.com/davitra/fleetboard/internal/config"
	"github.com/davitra/fleetboard/internal/models"
)

// Rank builds the leaderboard from per-device metrics. Devices are ordered by
// total distance descending; the sort is stable, so ties keep the registry
// enumeration order. Ranks are 1-based and rank 1 is the winner. Devices
// missing from metricsByName score zero.
//
// Ranking compares full-precision distances; two-decimal rounding is applied
// only when values are displayed.
func Rank(devices []config.Device, metricsByName map[string]models.DeviceMetrics) models.Leaderboard {
	entries := make([]models.LeaderboardEntry, 0, len(devices))
	var total float64
	for _, d := range devices {
		m := metricsByName[d.Name]
		entries = append(entries, models.LeaderboardEntry{
			DeviceName:      d.Name,
			TotalDistanceKm: m.TotalDistanceKm,
			AverageSpeedKmh: m.AverageSpeedKmh,
		})
		total += m.TotalDistanceKm
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalDistanceKm > entries[j].TotalDistanceKm
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return models.Leaderboard{
		Entries:         entries,
		TotalDistanceKm: total,
	}
}
