// Package telemetry is the client for the ThingsBoard-style telemetry
// backend: one login per cycle, then per-device timeseries reads with the
// returned bearer token.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTimeout bounds every request to the backend. A timeout surfaces as
// an ordinary fetch failure; there are no retries.
const DefaultTimeout = 15 * time.Second

// Value is a telemetry value that the backend may encode either as a JSON
// number or as a quoted numeric string.
type Value float64

// UnmarshalJSON accepts both `12.5` and `"12.5"`.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid telemetry value %s: %w", string(data), err)
	}
	*v = Value(f)
	return nil
}

// TsValue is one raw timeseries entry as returned by the backend.
type TsValue struct {
	Ts    int64 `json:"ts"` // milliseconds since epoch
	Value Value `json:"value"`
}

// Client talks to one telemetry backend.
type Client struct {
	rest *resty.Client
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		rest: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(DefaultTimeout),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates and returns a bearer token. A non-success status or a
// response without a token is an authentication failure that aborts the
// whole cycle. The token is used read-only for the rest of the cycle; expiry
// is not refreshed and manifests as a fetch failure.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(loginRequest{Username: username, Password: password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("login failed: status %d", resp.StatusCode())
	}
	if out.Token == "" {
		return "", fmt.Errorf("login response contains no token")
	}

	if exp, ok := tokenExpiry(out.Token); ok && time.Until(exp) < time.Minute {
		log.Printf("telemetry token expires at %s, fetches may start failing", exp.Format(time.RFC3339))
	}

	return out.Token, nil
}

// Timeseries fetches raw per-key timeseries for one device over the half-open
// window [startTs, endTs), ascending, unaggregated, capped at limit samples.
// The result maps each requested key to its ordered entries; keys missing
// from the response are simply absent.
func (c *Client) Timeseries(ctx context.Context, token, deviceID string, keys []string, startTs, endTs int64, limit int) (map[string][]TsValue, error) {
	series := make(map[string][]TsValue)
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("X-Authorization", "Bearer "+token).
		SetQueryParams(map[string]string{
			"keys":    strings.Join(keys, ","),
			"startTs": strconv.FormatInt(startTs, 10),
			"endTs":   strconv.FormatInt(endTs, 10),
			"limit":   strconv.Itoa(limit),
			"agg":     "NONE",
			"orderBy": "ASC",
		}).
		Get(fmt.Sprintf("/api/plugins/telemetry/DEVICE/%s/values/timeseries", deviceID))
	if err != nil {
		return nil, fmt.Errorf("timeseries request for device %s failed: %w", deviceID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("timeseries fetch for device %s failed: status %d", deviceID, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), &series); err != nil {
		return nil, fmt.Errorf("malformed timeseries response for device %s: %w", deviceID, err)
	}

	return series, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the token
// is the backend's to verify, this is only for operator warnings.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
