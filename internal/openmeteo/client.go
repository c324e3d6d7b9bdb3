// Package openmeteo fetches forecasts from the Open-Meteo API. No API
// key is needed. Each fetch is a single GET with a fixed timeout; the
// caller's schedule is the only retry mechanism.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kpederson/snowbot/internal/advisor"
	"github.com/kpederson/snowbot/internal/metrics"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"
	fetchTimeout   = 10 * time.Second

	// Hourly timestamps arrive in ISO 8601 without an offset; we
	// request timezone=UTC so they parse unambiguously.
	hourlyTimeLayout = "2006-01-02T15:04"
)

// FetchError wraps any failure to obtain a usable snapshot: transport
// errors, timeouts, non-2xx statuses, and malformed bodies.
type FetchError struct {
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("openmeteo: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("openmeteo: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches weather snapshots for one fixed location.
type Client struct {
	baseURL  string
	client   *http.Client
	lat, lon float64
}

func NewClient(lat, lon float64) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: fetchTimeout},
		lat:     lat,
		lon:     lon,
	}
}

type forecastResponse struct {
	Current struct {
		Temperature   *float64 `json:"temperature_2m"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
		WindDirection *float64 `json:"wind_direction_10m"`
		Snowfall      *float64 `json:"snowfall"`
	} `json:"current"`
	Hourly struct {
		Time          []string   `json:"time"`
		Snowfall      []*float64 `json:"snowfall"`
		WindSpeed     []*float64 `json:"wind_speed_10m"`
		WindDirection []*float64 `json:"wind_direction_10m"`
		Temperature   []*float64 `json:"temperature_2m"`
	} `json:"hourly"`
}

// Fetch retrieves a snapshot of current and hourly conditions: one day
// of history plus three days of forecast, in °F / mph / inches.
func (c *Client) Fetch(ctx context.Context) (*advisor.Snapshot, error) {
	start := time.Now()
	snap, err := c.fetch(ctx)
	metrics.WeatherFetchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WeatherFetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.WeatherFetchesTotal.WithLabelValues("ok").Inc()
	return snap, nil
}

func (c *Client) fetch(ctx context.Context) (*advisor.Snapshot, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", c.lat))
	q.Set("longitude", fmt.Sprintf("%f", c.lon))
	q.Set("current", "temperature_2m,wind_speed_10m,wind_direction_10m,snowfall")
	q.Set("hourly", "snowfall,wind_speed_10m,wind_direction_10m,temperature_2m")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")
	q.Set("precipitation_unit", "inch")
	q.Set("timezone", "UTC")
	q.Set("forecast_days", "3")
	q.Set("past_days", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("fetch forecast: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", string(b))}
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return buildSnapshot(data)
}

func buildSnapshot(data forecastResponse) (*advisor.Snapshot, error) {
	snap := &advisor.Snapshot{
		Temperature: data.Current.Temperature,
	}
	if data.Current.WindSpeed != nil {
		snap.WindSpeed = *data.Current.WindSpeed
	}
	if data.Current.WindDirection != nil {
		snap.WindBearing = *data.Current.WindDirection
	}
	if data.Current.Snowfall != nil {
		snap.Snowfall = *data.Current.Snowfall
	}

	snap.Hourly = make([]advisor.Sample, 0, len(data.Hourly.Time))
	for i, raw := range data.Hourly.Time {
		ts, err := time.ParseInLocation(hourlyTimeLayout, raw, time.UTC)
		if err != nil {
			return nil, &FetchError{Err: fmt.Errorf("parse hourly time %q: %w", raw, err)}
		}
		sample := advisor.Sample{Time: ts}
		if i < len(data.Hourly.Snowfall) {
			sample.Snowfall = data.Hourly.Snowfall[i]
		}
		if i < len(data.Hourly.WindSpeed) {
			sample.WindSpeed = data.Hourly.WindSpeed[i]
		}
		if i < len(data.Hourly.WindDirection) {
			sample.WindBearing = data.Hourly.WindDirection[i]
		}
		snap.Hourly = append(snap.Hourly, sample)
	}
	return snap, nil
}
