// Package trail turns the backend's raw dual timeseries into an ordered
// trail of samples.
package trail

import (
	"context"
	"fmt"

	"github.com/davitra/fleetboard/internal/models"
	"github.com/davitra/fleetboard/internal/telemetry"
)

// Fetcher produces trails for devices within a requested time window.
type Fetcher struct {
	client *telemetry.Client
	limit  int // sample cap per fetch
}

// NewFetcher creates a fetcher using the given client and sample cap.
func NewFetcher(client *telemetry.Client, limit int) *Fetcher {
	return &Fetcher{client: client, limit: limit}
}

// Fetch retrieves the lat/lon series for one device over [startTs, endTs)
// and merges them into a trail. Any transport or status error aborts the
// fetch; there is no partial result.
func (f *Fetcher) Fetch(ctx context.Context, token, deviceID string, startTs, endTs int64) (models.Trail, error) {
	series, err := f.client.Timeseries(ctx, token, deviceID, []string{"lat", "lon"}, startTs, endTs, f.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trail: %w", err)
	}
	return Merge(series["lat"], series["lon"]), nil
}

// Merge pairs the two series by positional index: n = min(len(lat), len(lon)),
// lat[i] with lon[i], using the latitude sample's timestamp for the pair.
// This mirrors the backend's cardinality behavior as observed; if the backend
// ever returns misaligned per-key series, the result is syntactically valid
// but pairs coordinates from different observations. Pairing by timestamp
// instead would be a behavior change and belongs behind a new policy.
func Merge(lat, lon []telemetry.TsValue) models.Trail {
	n := len(lat)
	if len(lon) < n {
		n = len(lon)
	}
	if n == 0 {
		return models.Trail{}
	}

	t := make(models.Trail, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, models.Sample{
			Ts:  lat[i].Ts,
			Lat: float64(lat[i].Value),
			Lon: float64(lon[i].Value),
		})
	}
	return t
}
