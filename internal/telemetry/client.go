// Package telemetry is the HTTP client for the remote fleet-management
// API that supplies devices, zones, trips and GPS logs. It owns request
// timeouts and retries; the report engine above it enforces none of its
// own.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

// Client talks to the fleet API over JSON HTTP.
type Client struct {
	baseURL string
	apiKey  string
	session *http.Client
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: &http.Client{Timeout: 30 * time.Second},
	}
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Devices lists the devices belonging to a group.
func (c *Client) Devices(ctx context.Context, groupID string) ([]models.Device, error) {
	var devices []models.Device
	q := url.Values{"group": {groupID}}
	if err := c.getJSON(ctx, "/devices", q, &devices); err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}
	return devices, nil
}

// ZoneTypes lists all zone types.
func (c *Client) ZoneTypes(ctx context.Context) ([]models.ZoneType, error) {
	var types []models.ZoneType
	if err := c.getJSON(ctx, "/zonetypes", nil, &types); err != nil {
		return nil, fmt.Errorf("fetch zone types: %w", err)
	}
	return types, nil
}

// Zones lists every zone visible to the credentials.
func (c *Client) Zones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := c.getJSON(ctx, "/zones", nil, &zones); err != nil {
		return nil, fmt.Errorf("fetch zones: %w", err)
	}
	return zones, nil
}

// ZonesByType lists the zones belonging to a zone type.
func (c *Client) ZonesByType(ctx context.Context, zoneTypeID string) ([]models.Zone, error) {
	var zones []models.Zone
	q := url.Values{"zoneType": {zoneTypeID}}
	if err := c.getJSON(ctx, "/zones", q, &zones); err != nil {
		return nil, fmt.Errorf("fetch zones by type %s: %w", zoneTypeID, err)
	}
	return zones, nil
}

// ZoneByID fetches a single zone, nil when it does not exist.
func (c *Client) ZoneByID(ctx context.Context, id string) (*models.Zone, error) {
	var zones []models.Zone
	q := url.Values{"id": {id}}
	if err := c.getJSON(ctx, "/zones", q, &zones); err != nil {
		return nil, fmt.Errorf("fetch zone %s: %w", id, err)
	}
	if len(zones) == 0 {
		return nil, nil
	}
	return &zones[0], nil
}

// multiQuery is one entry in a batched fetch.
type multiQuery struct {
	Type   string         `json:"type"`
	Search map[string]any `json:"search"`
}

// TripsAndLogs fetches a device's trips and GPS log records for the date
// range in one paired request, so the remote sees them as a single unit
// of work per device.
func (c *Client) TripsAndLogs(ctx context.Context, deviceID string, from, to time.Time) ([]models.Trip, []models.LogRecord, error) {
	search := map[string]any{
		"device": deviceID,
		"from":   from.UTC().Format(time.RFC3339),
		"to":     to.UTC().Format(time.RFC3339),
	}
	queries := []multiQuery{
		{Type: "Trip", Search: search},
		{Type: "LogRecord", Search: search},
	}

	var results []json.RawMessage
	if err := c.postJSON(ctx, "/multi", queries, &results); err != nil {
		return nil, nil, fmt.Errorf("fetch trips and logs for device %s: %w", deviceID, err)
	}
	if len(results) != 2 {
		return nil, nil, fmt.Errorf("fetch trips and logs for device %s: expected 2 result sets, got %d", deviceID, len(results))
	}

	var trips []models.Trip
	if err := json.Unmarshal(results[0], &trips); err != nil {
		return nil, nil, fmt.Errorf("decode trips for device %s: %w", deviceID, err)
	}
	var logs []models.LogRecord
	if err := json.Unmarshal(results[1], &logs); err != nil {
		return nil, nil, fmt.Errorf("decode logs for device %s: %w", deviceID, err)
	}
	return trips, logs, nil
}

// rawAddress tolerates the address shapes the API has been seen to
// return: a bare string or an object with a formatted form.
type rawAddress struct {
	value string
}

func (a *rawAddress) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.value = s
		return nil
	}
	var obj struct {
		FormattedAddress string `json:"formattedAddress"`
		DisplayName      string `json:"displayName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.FormattedAddress != "" {
		a.value = obj.FormattedAddress
	} else {
		a.value = obj.DisplayName
	}
	return nil
}

// Addresses reverse-geocodes a batch of positions into address strings,
// one per input position. Unresolvable entries come back empty.
func (c *Client) Addresses(ctx context.Context, positions []models.Position) ([]string, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	var raw []rawAddress
	if err := c.postJSON(ctx, "/addresses", positions, &raw); err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}
	out := make([]string, len(positions))
	for i := range raw {
		if i < len(out) {
			out[i] = raw[i].value
		}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	return c.callJSON(ctx, http.MethodGet, path, query, nil, target)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.callJSON(ctx, http.MethodPost, path, nil, payload, target)
}

func (c *Client) callJSON(ctx context.Context, method, path string, query url.Values, body []byte, target any) error {
	makeReq := func() (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if query != nil {
			req.URL.RawQuery = query.Encode()
		}
		return req, nil
	}

	resp, err := c.doWithRetry(ctx, makeReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// responses) with exponential backoff, respecting context cancellation.
func (c *Client) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}
