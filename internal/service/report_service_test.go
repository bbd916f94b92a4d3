package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davitra/fleetboard/internal/config"
	"github.com/davitra/fleetboard/internal/telemetry"
	"github.com/davitra/fleetboard/internal/testutil"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		BaseURL:     baseURL,
		Username:    "tenant@example.com",
		Password:    "secret",
		StaticDir:   t.TempDir(),
		WindowHours: 24,
		SampleLimit: 10000,
		Devices: []config.Device{
			{Name: "DeviceA", ID: "dev-a"},
			{Name: "DeviceB", ID: "dev-b"},
		},
	}
}

func TestBuildReport(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()

	base := time.Now().Add(-2*time.Hour).UnixMilli()
	hour := int64(time.Hour / time.Millisecond)
	// DeviceB travels half a degree of longitude at the equator (~55 km),
	// DeviceA a hundredth (~1.1 km); B must outrank A.
	srv.Devices["dev-a"] = testutil.DeviceSeries{
		Lat: []testutil.TsPoint{{Ts: base, Value: 0}, {Ts: base + hour, Value: 0}},
		Lon: []testutil.TsPoint{{Ts: base, Value: 0}, {Ts: base + hour, Value: 0.01}},
	}
	srv.Devices["dev-b"] = testutil.DeviceSeries{
		Lat: []testutil.TsPoint{{Ts: base, Value: 0}, {Ts: base + hour, Value: 0}},
		Lon: []testutil.TsPoint{{Ts: base, Value: 0}, {Ts: base + hour, Value: 0.5}},
	}

	cfg := testConfig(t, srv.URL)
	s := NewReportService(cfg, telemetry.NewClient(cfg.BaseURL))

	report, err := s.BuildReport(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Board.Entries, 2)
	assert.Equal(t, "DeviceB", report.Board.Entries[0].DeviceName)
	assert.Equal(t, 1, report.Board.Entries[0].Rank)
	assert.Equal(t, "DeviceA", report.Board.Entries[1].DeviceName)
	assert.Greater(t, report.Board.Entries[0].TotalDistanceKm, report.Board.Entries[1].TotalDistanceKm)
	assert.InDelta(t,
		report.Board.Entries[0].TotalDistanceKm+report.Board.Entries[1].TotalDistanceKm,
		report.Board.TotalDistanceKm, 1e-9)

	// Both devices had trails, so both got map artifacts on disk.
	for _, name := range []string{"DeviceA", "DeviceB"} {
		url, ok := report.MapURL[name]
		require.True(t, ok, "missing map for %s", name)
		assert.True(t, strings.HasPrefix(url, "/static/"+name+"_"))
	}
	entries, err := os.ReadDir(cfg.StaticDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBuildReportEmptyTrailNoMap(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	// dev-a unknown to the backend: both keys missing, empty trail.
	srv.Devices["dev-b"] = testutil.DeviceSeries{
		Lat: []testutil.TsPoint{{Ts: 1000, Value: 1}, {Ts: 2000, Value: 1.1}},
		Lon: []testutil.TsPoint{{Ts: 1000, Value: 2}, {Ts: 2000, Value: 2.1}},
	}

	cfg := testConfig(t, srv.URL)
	s := NewReportService(cfg, telemetry.NewClient(cfg.BaseURL))

	report, err := s.BuildReport(context.Background())
	require.NoError(t, err)

	_, hasMap := report.MapURL["DeviceA"]
	assert.False(t, hasMap, "empty trail must not produce a map artifact")

	// DeviceA still appears on the board with zero metrics.
	last := report.Board.Entries[len(report.Board.Entries)-1]
	assert.Equal(t, "DeviceA", last.DeviceName)
	assert.Zero(t, last.TotalDistanceKm)
	assert.Zero(t, last.AverageSpeedKmh)
}

func TestBuildReportAuthFailureAborts(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	srv.FailLogin = true

	cfg := testConfig(t, srv.URL)
	s := NewReportService(cfg, telemetry.NewClient(cfg.BaseURL))

	_, err := s.BuildReport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestBuildReportFetchFailureAborts(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	srv.Devices["dev-a"] = testutil.DeviceSeries{
		Lat: []testutil.TsPoint{{Ts: 1000, Value: 1}},
		Lon: []testutil.TsPoint{{Ts: 1000, Value: 2}},
	}
	srv.FailDevices["dev-b"] = true

	cfg := testConfig(t, srv.URL)
	s := NewReportService(cfg, telemetry.NewClient(cfg.BaseURL))

	_, err := s.BuildReport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeviceB")
}
