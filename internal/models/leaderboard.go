package models

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank            int     `json:"rank"` // 1-based; rank 1 is the winner
	DeviceName      string  `json:"deviceName"`
	TotalDistanceKm float64 `json:"totalDistanceKm"`
	AverageSpeedKmh float64 `json:"averageSpeedKmh"`
}

// Leaderboard holds the entries ordered by total distance descending.
// Ties retain device registry enumeration order.
type Leaderboard struct {
	Entries         []LeaderboardEntry `json:"entries"`
	TotalDistanceKm float64            `json:"totalDistanceKm"` // sum over all devices
}

// Winner returns the top-ranked entry. ok is false when the board is empty.
func (l Leaderboard) Winner() (LeaderboardEntry, bool) {
	if len(l.Entries) == 0 {
		return LeaderboardEntry{}, false
	}
	return l.Entries[0], true
}
