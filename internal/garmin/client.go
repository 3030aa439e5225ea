// Package garmin implements the telemetry client for a Garmin-Connect-style
// HTTP API.
package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vvasiu/strides/internal/contract"
)

// API paths, relative to the configured base URL.
const (
	signinPath       = "/signin"
	activityListPath = "/activitylist-service/activities/search/activities"
	activityPath     = "/activity-service/activity"
)

// Client talks to the telemetry API over HTTP. All calls except Login require
// an established session.
type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client
	token    string
}

var _ contract.TelemetryClient = &Client{} // Compile-time check

// NewClient creates a telemetry client from the resolved configuration.
func NewClient(cfg *contract.Config) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.APIBaseURL, "/"),
		email:    cfg.APIEmail,
		password: cfg.APIPassword,
		http:     &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Login establishes a session and stores the bearer token for later calls.
func (c *Client) Login(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"username": c.email,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("failed to encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+signinPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}

	var body struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}

	token := body.Token
	if token == "" {
		token = body.AccessToken
	}
	if token == "" {
		return fmt.Errorf("login response carried no session token")
	}
	c.token = token
	return nil
}

// RecentActivities returns raw activity summaries, newest first.
func (c *Client) RecentActivities(ctx context.Context, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = contract.DefaultActivityLimit
	}

	var activities []map[string]any
	path := fmt.Sprintf("%s?start=0&limit=%d", activityListPath, limit)
	if err := c.getJSON(ctx, path, &activities); err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	return activities, nil
}

// ActivityDetails returns the tabular metric block for an activity.
func (c *Client) ActivityDetails(ctx context.Context, activityID int64) (map[string]any, error) {
	var details map[string]any
	path := fmt.Sprintf("%s/%d/details", activityPath, activityID)
	if err := c.getJSON(ctx, path, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch details for activity %d: %w", activityID, err)
	}
	return details, nil
}

// ActivitySplits returns the per-lap split payload for an activity.
func (c *Client) ActivitySplits(ctx context.Context, activityID int64) (map[string]any, error) {
	var splits map[string]any
	path := fmt.Sprintf("%s/%d/splits", activityPath, activityID)
	if err := c.getJSON(ctx, path, &splits); err != nil {
		return nil, fmt.Errorf("failed to fetch splits for activity %d: %w", activityID, err)
	}
	return splits, nil
}

// ActivityHRZones returns the time-in-zone payload. The shape varies across
// API versions, so the raw decoded value is handed to the summarizer as is.
func (c *Client) ActivityHRZones(ctx context.Context, activityID int64) (any, error) {
	var zones any
	path := fmt.Sprintf("%s/%d/hrTimeInZones", activityPath, activityID)
	if err := c.getJSON(ctx, path, &zones); err != nil {
		return nil, fmt.Errorf("failed to fetch HR zones for activity %d: %w", activityID, err)
	}
	return zones, nil
}

// ActivityRoute returns the raw GPS polyline points for an activity. The API
// nests the polyline under geoPolylineDTO in the details payload.
func (c *Client) ActivityRoute(ctx context.Context, activityID int64) ([]map[string]any, error) {
	var details map[string]any
	path := fmt.Sprintf("%s/%d/details?maxPolylineSize=0", activityPath, activityID)
	if err := c.getJSON(ctx, path, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch route for activity %d: %w", activityID, err)
	}

	geo, ok := details["geoPolylineDTO"].(map[string]any)
	if !ok {
		return nil, nil
	}
	rawPoints, ok := geo["polyline"].([]any)
	if !ok {
		return nil, nil
	}

	points := make([]map[string]any, 0, len(rawPoints))
	for _, raw := range rawPoints {
		if point, ok := raw.(map[string]any); ok {
			points = append(points, point)
		}
	}
	return points, nil
}

// getJSON performs an authenticated GET and decodes the response into out.
// Numbers are decoded as json.Number so epoch milliseconds keep precision.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if c.token == "" {
		return fmt.Errorf("no session established; call Login first")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readSnippet reads a short prefix of an error response body for messages.
func readSnippet(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 256))
	if err != nil || len(data) == 0 {
		return "<no body>"
	}
	return strings.TrimSpace(string(data))
}
