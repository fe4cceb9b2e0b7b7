// Package openmeteo is the fetch collaborator: it pulls marine and
// atmospheric forecasts from the Open-Meteo APIs and hands the raw payloads
// to the core, falling back to a local snapshot cache when a fetch fails.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sandgroper/shorecast/internal/domain"
	"github.com/sandgroper/shorecast/internal/forecast"
)

// Client fetches per-location forecast payloads.
type Client struct {
	weatherBaseURL string
	marineBaseURL  string
	httpClient     *http.Client
	cache          *FileCache // nil disables fallback
	timezone       string
	forecastDays   int
	logger         *slog.Logger
}

// NewClient creates an Open-Meteo client. Pass a nil cache to disable the
// stale-data fallback.
func NewClient(weatherBaseURL, marineBaseURL string, timeout time.Duration, forecastDays int, cache *FileCache, logger *slog.Logger) *Client {
	return &Client{
		weatherBaseURL: weatherBaseURL,
		marineBaseURL:  marineBaseURL,
		httpClient:     &http.Client{Timeout: timeout},
		cache:          cache,
		timezone:       "Australia/Perth",
		forecastDays:   forecastDays,
		logger:         logger,
	}
}

var marineHourlyVars = []string{
	"wave_height",
	"swell_wave_period",
	"sea_surface_temperature",
}

var weatherHourlyVars = []string{
	"temperature_2m",
	"apparent_temperature",
	"wind_speed_10m",
	"wind_direction_10m",
	"wind_gusts_10m",
	"cloud_cover",
	"uv_index",
	"precipitation_probability",
}

var weatherDailyVars = []string{
	"sunrise",
	"sunset",
	"uv_index_max",
}

// Result is a fetched payload plus how it was obtained.
type Result struct {
	Data forecast.RawLocationData
	// Stale is set when the payload came from the fallback cache.
	Stale bool
}

// Fetch retrieves the marine and weather payloads for a location. On fetch
// failure it falls back to the most recent cached payload within the cache
// TTL; if none exists the error is wrapped as the location's DataUnavailable
// condition.
func (c *Client) Fetch(ctx context.Context, loc domain.Location) (Result, error) {
	key := fmt.Sprintf("raw_%s_%.4f_%.4f", loc.Name, loc.Lat, loc.Lon)

	data, err := c.fetchBoth(ctx, loc)
	if err == nil {
		if c.cache != nil {
			if cacheErr := c.cache.Put(key, data); cacheErr != nil {
				c.logger.Warn("cache write failed", "location", loc.Name, "error", cacheErr)
			}
		}
		return Result{Data: data}, nil
	}

	if c.cache != nil {
		var cached forecast.RawLocationData
		if ok, cacheErr := c.cache.Get(key, &cached); cacheErr == nil && ok {
			c.logger.Warn("fetch failed, using cached payload",
				"location", loc.Name, "error", err)
			return Result{Data: cached, Stale: true}, nil
		}
	}

	return Result{}, &domain.DataUnavailableError{Location: loc.Name, Err: err}
}

func (c *Client) fetchBoth(ctx context.Context, loc domain.Location) (forecast.RawLocationData, error) {
	var data forecast.RawLocationData

	if err := c.getJSON(ctx, c.marineURL(loc), &data.Marine); err != nil {
		return data, fmt.Errorf("marine fetch: %w", err)
	}
	if err := c.getJSON(ctx, c.weatherURL(loc), &data.Weather); err != nil {
		return data, fmt.Errorf("weather fetch: %w", err)
	}
	return data, nil
}

func (c *Client) marineURL(loc domain.Location) string {
	params := url.Values{
		"latitude":      {formatCoord(loc.Lat)},
		"longitude":     {formatCoord(loc.Lon)},
		"hourly":        marineHourlyVars,
		"timezone":      {c.timezone},
		"forecast_days": {strconv.Itoa(c.forecastDays)},
	}
	return c.marineBaseURL + "?" + params.Encode()
}

func (c *Client) weatherURL(loc domain.Location) string {
	params := url.Values{
		"latitude":      {formatCoord(loc.Lat)},
		"longitude":     {formatCoord(loc.Lon)},
		"hourly":        weatherHourlyVars,
		"daily":         weatherDailyVars,
		"timezone":      {c.timezone},
		"forecast_days": {strconv.Itoa(c.forecastDays)},
	}
	return c.weatherBaseURL + "?" + params.Encode()
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// WaterTemperature fetches today's average sea surface temperature at a
// reference point. Best-effort: returns nil when unavailable.
func (c *Client) WaterTemperature(ctx context.Context, lat, lon float64) *float64 {
	params := url.Values{
		"latitude":      {formatCoord(lat)},
		"longitude":     {formatCoord(lon)},
		"hourly":        {"sea_surface_temperature"},
		"timezone":      {c.timezone},
		"forecast_days": {"1"},
	}

	var payload forecast.MarinePayload
	if err := c.getJSON(ctx, c.marineBaseURL+"?"+params.Encode(), &payload); err != nil {
		c.logger.Warn("water temperature fetch failed", "error", err)
		return nil
	}

	var sum float64
	var count int
	for _, t := range payload.Hourly.SeaSurfaceTemperature {
		if t != nil {
			sum += *t
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := math.Round(sum/float64(count)*10) / 10
	return &avg
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
