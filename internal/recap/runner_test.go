package recap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davitra/fleetboard/internal/config"
	"github.com/davitra/fleetboard/internal/storage"
	"github.com/davitra/fleetboard/internal/telemetry"
	"github.com/davitra/fleetboard/internal/testutil"
)

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(body string) error {
	f.sent = append(f.sent, body)
	return nil
}

func recapConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		BaseURL:     baseURL,
		Username:    "tenant@example.com",
		Password:    "secret",
		WindowHours: 24,
		SampleLimit: 10000,
		RecapDir:    t.TempDir(),
		RuleLeader:  "DeviceB",
		RuleRival:   "DeviceA",
		RuleBody:    "DeviceB covered more ground than DeviceA.",
		Devices: []config.Device{
			{Name: "DeviceA", ID: "dev-a"},
			{Name: "DeviceB", ID: "dev-b"},
		},
	}
}

// seed loads the fake backend so that DeviceA covers ~1 km and DeviceB ~55 km
// (or the reverse when flipped).
func seed(srv *testutil.TBServer, flipped bool) {
	base := time.Now().Add(-2*time.Hour).UnixMilli()
	hour := int64(time.Hour / time.Millisecond)

	short := testutil.DeviceSeries{
		Lat: []testutil.TsPoint{{Ts: base, Value: 0}, {Ts: base + hour, Value: 0}},
		Lon: []testutil.TsPoint{{Ts: base, Value: 0}, {Ts: base + hour, Value: 0.01}},
	}
	long := testutil.DeviceSeries{
		Lat: []testutil.TsPoint{{Ts: base, Value: 0}, {Ts: base + hour, Value: 0}},
		Lon: []testutil.TsPoint{{Ts: base, Value: 0}, {Ts: base + hour, Value: 0.5}},
	}

	if flipped {
		srv.Devices["dev-a"] = long
		srv.Devices["dev-b"] = short
	} else {
		srv.Devices["dev-a"] = short
		srv.Devices["dev-b"] = long
	}
}

func TestRunSendsExactlyOneNotification(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	seed(srv, false) // DeviceB ahead

	cfg := recapConfig(t, srv.URL)
	notifier := &fakeNotifier{}
	var out bytes.Buffer

	r := NewRunner(cfg, telemetry.NewClient(cfg.BaseURL), notifier, nil, &out)
	require.NoError(t, r.Run(context.Background()))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, cfg.RuleBody, notifier.sent[0])

	// Recap blocks with start/end timestamps and 2-decimal distances.
	text := out.String()
	assert.Contains(t, text, "DeviceA:")
	assert.Contains(t, text, "DeviceB:")
	assert.Contains(t, text, "start: ")
	assert.Contains(t, text, "end:   ")
	assert.Regexp(t, `DeviceB: \d+\.\d\d km`, text)

	// CSV and KML artifacts for both devices.
	for _, name := range []string{"DeviceA", "DeviceB"} {
		csvData, err := os.ReadFile(filepath.Join(cfg.RecapDir, name+".csv"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(csvData), "ts,lat,lon\n"))
		lines := strings.Count(strings.TrimSpace(string(csvData)), "\n") + 1
		assert.Equal(t, 3, lines, "%s.csv should have header + 2 samples", name)

		_, err = os.Stat(filepath.Join(cfg.RecapDir, name+".kml"))
		assert.NoError(t, err)
	}
}

func TestRunNoNotificationWhenRivalAhead(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	seed(srv, true) // DeviceA ahead

	cfg := recapConfig(t, srv.URL)
	notifier := &fakeNotifier{}

	r := NewRunner(cfg, telemetry.NewClient(cfg.BaseURL), notifier, nil, &bytes.Buffer{})
	require.NoError(t, r.Run(context.Background()))
	assert.Empty(t, notifier.sent)
}

func TestRunContinuesPastFailedDevice(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	seed(srv, false)
	srv.FailDevices["dev-a"] = true // rival fails

	cfg := recapConfig(t, srv.URL)
	notifier := &fakeNotifier{}
	var out bytes.Buffer

	r := NewRunner(cfg, telemetry.NewClient(cfg.BaseURL), notifier, nil, &out)
	err := r.Run(context.Background())

	// The failed device makes the run report an error, but DeviceB was still
	// processed.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeviceA")
	assert.Contains(t, out.String(), "DeviceB:")

	// The rule names a device that was not fetched, so no notification.
	assert.Empty(t, notifier.sent)
}

func TestRunArchivesSamples(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	seed(srv, false)

	cfg := recapConfig(t, srv.URL)
	archive, err := storage.OpenArchive(filepath.Join(t.TempDir(), "samples.db"))
	require.NoError(t, err)
	defer archive.Close()

	r := NewRunner(cfg, telemetry.NewClient(cfg.BaseURL), &fakeNotifier{}, archive, &bytes.Buffer{})
	require.NoError(t, r.Run(context.Background()))

	n, err := archive.CountSamples("DeviceA")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRunAuthFailureIsFatal(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	srv.FailLogin = true

	cfg := recapConfig(t, srv.URL)
	r := NewRunner(cfg, telemetry.NewClient(cfg.BaseURL), &fakeNotifier{}, nil, &bytes.Buffer{})

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestRunEmptyTrailBlock(t *testing.T) {
	srv := testutil.NewTBServer()
	defer srv.Close()
	// Neither device known to the backend: empty trails everywhere.

	cfg := recapConfig(t, srv.URL)
	notifier := &fakeNotifier{}
	var out bytes.Buffer

	r := NewRunner(cfg, telemetry.NewClient(cfg.BaseURL), notifier, nil, &out)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "DeviceA: no samples in window")
	// Equal zero distances: strict comparison, no notification.
	assert.Empty(t, notifier.sent)

	// Header-only CSV still written; no KML for an empty trail.
	data, err := os.ReadFile(filepath.Join(cfg.RecapDir, "DeviceA.csv"))
	require.NoError(t, err)
	assert.Equal(t, "ts,lat,lon\n", string(data))
	_, err = os.Stat(filepath.Join(cfg.RecapDir, "DeviceA.kml"))
	assert.True(t, os.IsNotExist(err))
}
