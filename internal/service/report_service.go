// Package service orchestrates a report cycle: one login, one fetch per
// device, metrics, map artifacts, ranking.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/davitra/fleetboard/internal/config"
	"github.com/davitra/fleetboard/internal/leaderboard"
	"github.com/davitra/fleetboard/internal/mapview"
	"github.com/davitra/fleetboard/internal/metrics"
	"github.com/davitra/fleetboard/internal/models"
	"github.com/davitra/fleetboard/internal/telemetry"
	"github.com/davitra/fleetboard/internal/trail"
)

// Report is the outcome of one cycle, cycle-fresh for each request.
type Report struct {
	Board       models.Leaderboard
	MapURL      map[string]string // device name -> artifact URL path, absent when no trail
	GeneratedAt time.Time
}

// ReportService builds reports against one telemetry backend.
type ReportService struct {
	cfg     *config.Config
	client  *telemetry.Client
	fetcher *trail.Fetcher
	now     func() time.Time
}

// NewReportService creates a report service.
func NewReportService(cfg *config.Config, client *telemetry.Client) *ReportService {
	return &ReportService{
		cfg:     cfg,
		client:  client,
		fetcher: trail.NewFetcher(client, cfg.SampleLimit),
		now:     time.Now,
	}
}

// BuildReport runs one full cycle over the trailing window. Devices are
// fetched sequentially with a token obtained once and reused read-only.
// Authentication failure or any device's fetch failure aborts the whole
// report; there is no partial leaderboard.
func (s *ReportService) BuildReport(ctx context.Context) (*Report, error) {
	token, err := s.client.Login(ctx, s.cfg.Username, s.cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	endTs := s.now().UnixMilli()
	startTs := endTs - int64(s.cfg.WindowHours)*int64(time.Hour/time.Millisecond)

	metricsByName := make(map[string]models.DeviceMetrics, len(s.cfg.Devices))
	mapURL := make(map[string]string)

	for _, d := range s.cfg.Devices {
		t, err := s.fetcher.Fetch(ctx, token, d.ID, startTs, endTs)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", d.Name, err)
		}

		metricsByName[d.Name] = metrics.Compute(t)

		art, err := mapview.Render(d.Name, t)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", d.Name, err)
		}
		if art == nil {
			continue // empty trail, rendered without a map
		}
		if _, err := mapview.WriteArtifact(s.cfg.StaticDir, art); err != nil {
			return nil, fmt.Errorf("device %s: %w", d.Name, err)
		}
		mapURL[d.Name] = art.URLPath()
	}

	return &Report{
		Board:       leaderboard.Rank(s.cfg.Devices, metricsByName),
		MapURL:      mapURL,
		GeneratedAt: s.now(),
	}, nil
}
