// Package testutil provides a fake telemetry backend for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
)

// TestToken is the bearer token the fake backend issues.
const TestToken = "test-token"

// TsPoint is one timeseries entry the fake backend serves.
type TsPoint struct {
	Ts    int64
	Value float64
}

// DeviceSeries holds the per-key series for one device.
type DeviceSeries struct {
	Lat []TsPoint
	Lon []TsPoint
}

// TBServer is an httptest server mimicking the telemetry backend's login and
// timeseries endpoints. Values are served as quoted strings, matching the
// backend's habit of stringifying telemetry values.
type TBServer struct {
	*httptest.Server

	// Devices maps device ID to its series.
	Devices map[string]DeviceSeries
	// FailDevices lists device IDs whose fetch returns a 500.
	FailDevices map[string]bool
	// FailLogin makes the login endpoint return a 401.
	FailLogin bool
	// EmptyToken makes login succeed with no token field.
	EmptyToken bool

	// LastQuery records the query of the most recent timeseries request.
	LastQuery map[string]string
}

// NewTBServer starts the fake backend. Callers own Close.
func NewTBServer() *TBServer {
	s := &TBServer{
		Devices:     make(map[string]DeviceSeries),
		FailDevices: make(map[string]bool),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *TBServer) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login":
		s.handleLogin(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/plugins/telemetry/DEVICE/"):
		s.handleTimeseries(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *TBServer) handleLogin(w http.ResponseWriter, _ *http.Request) {
	if s.FailLogin {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	resp := map[string]string{"token": TestToken}
	if s.EmptyToken {
		resp = map[string]string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *TBServer) handleTimeseries(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Authorization") != "Bearer "+TestToken {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	parts := strings.Split(r.URL.Path, "/")
	// /api/plugins/telemetry/DEVICE/{id}/values/timeseries
	deviceID := parts[5]

	s.LastQuery = make(map[string]string)
	for k, v := range r.URL.Query() {
		s.LastQuery[k] = v[0]
	}

	if s.FailDevices[deviceID] {
		http.Error(w, "backend error", http.StatusInternalServerError)
		return
	}

	series, ok := s.Devices[deviceID]
	if !ok {
		// Unknown device: both keys absent, as the backend does.
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "{}")
		return
	}

	body := make(map[string][]map[string]interface{})
	if len(series.Lat) > 0 {
		body["lat"] = encodePoints(series.Lat)
	}
	if len(series.Lon) > 0 {
		body["lon"] = encodePoints(series.Lon)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func encodePoints(pts []TsPoint) []map[string]interface{} {
	out := make([]map[string]interface{}, len(pts))
	for i, p := range pts {
		out[i] = map[string]interface{}{
			"ts":    p.Ts,
			"value": fmt.Sprintf("%v", p.Value),
		}
	}
	return out
}
