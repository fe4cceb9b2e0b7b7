package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandgroper/shorecast/internal/domain"
)

var testLocation = domain.Location{
	Name: "Mettams Pool", Area: "Trigg",
	Lat: -31.8195, Lon: 115.7517,
	Category:       domain.CategorySnorkel,
	ShoreNormalDeg: 270,
}

const marineBody = `{
	"hourly": {
		"time": ["2026-02-02T00:00", "2026-02-02T01:00"],
		"wave_height": [0.3, 0.4],
		"swell_wave_period": [11, 12],
		"sea_surface_temperature": [24.1, 24.3]
	}
}`

const weatherBody = `{
	"hourly": {
		"time": ["2026-02-02T00:00", "2026-02-02T01:00"],
		"temperature_2m": [27, 28],
		"apparent_temperature": [28, 29],
		"wind_speed_10m": [10, 12],
		"wind_direction_10m": [90, 95],
		"wind_gusts_10m": [14, 16],
		"cloud_cover": [20, 25],
		"uv_index": [0, 1],
		"precipitation_probability": [5, 5]
	},
	"daily": {
		"time": ["2026-02-02"],
		"sunrise": ["2026-02-02T05:32"],
		"sunset": ["2026-02-02T19:21"],
		"uv_index_max": [11.2]
	}
}`

func newTestClient(t *testing.T, marineHandler, weatherHandler http.HandlerFunc, cache *FileCache) *Client {
	t.Helper()
	marine := httptest.NewServer(marineHandler)
	t.Cleanup(marine.Close)
	weather := httptest.NewServer(weatherHandler)
	t.Cleanup(weather.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(weather.URL, marine.URL, 5*time.Second, 7, cache, logger)
}

func serveJSON(t *testing.T, body string, assertQuery func(*http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if assertQuery != nil {
			assertQuery(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetch_Success(t *testing.T) {
	client := newTestClient(t,
		serveJSON(t, marineBody, func(r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "-31.8195", q.Get("latitude"))
			assert.Equal(t, "115.7517", q.Get("longitude"))
			assert.Equal(t, "Australia/Perth", q.Get("timezone"))
			assert.Equal(t, "7", q.Get("forecast_days"))
			assert.ElementsMatch(t, []string{"wave_height", "swell_wave_period", "sea_surface_temperature"}, q["hourly"])
		}),
		serveJSON(t, weatherBody, func(r *http.Request) {
			q := r.URL.Query()
			assert.Contains(t, q["hourly"], "wind_speed_10m")
			assert.Contains(t, q["hourly"], "uv_index")
			assert.ElementsMatch(t, []string{"sunrise", "sunset", "uv_index_max"}, q["daily"])
		}),
		nil)

	res, err := client.Fetch(context.Background(), testLocation)
	require.NoError(t, err)
	assert.False(t, res.Stale)

	require.Len(t, res.Data.Marine.Hourly.Time, 2)
	require.NotNil(t, res.Data.Marine.Hourly.WaveHeight[0])
	assert.Equal(t, 0.3, *res.Data.Marine.Hourly.WaveHeight[0])
	require.Len(t, res.Data.Weather.Hourly.Time, 2)
	assert.Equal(t, []string{"2026-02-02T05:32"}, res.Data.Weather.Daily.Sunrise)
}

func TestFetch_WritesCacheOnSuccess(t *testing.T) {
	cache := newTestCache(t, time.Hour)
	client := newTestClient(t, serveJSON(t, marineBody, nil), serveJSON(t, weatherBody, nil), cache)

	_, err := client.Fetch(context.Background(), testLocation)
	require.NoError(t, err)

	var cached struct {
		Marine MarineStub `json:"marine"`
	}
	ok, err := cache.Get("raw_Mettams Pool_-31.8195_115.7517", &cached)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, cached.Marine.Hourly.Time, 2)
}

// MarineStub decodes just enough of a cached payload to prove it was stored.
type MarineStub struct {
	Hourly struct {
		Time []string `json:"time"`
	} `json:"hourly"`
}

func TestFetch_FallsBackToCache(t *testing.T) {
	cache := newTestCache(t, time.Hour)

	var fail atomic.Bool
	flaky := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				http.Error(w, "upstream down", http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(body))
		}
	}
	client := newTestClient(t, flaky(marineBody), flaky(weatherBody), cache)

	_, err := client.Fetch(context.Background(), testLocation)
	require.NoError(t, err, "warm the cache")

	fail.Store(true)
	res, err := client.Fetch(context.Background(), testLocation)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Len(t, res.Data.Marine.Hourly.Time, 2)
}

func TestFetch_NoCacheNoFallback(t *testing.T) {
	down := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}
	client := newTestClient(t, down, down, newTestCache(t, time.Hour))

	_, err := client.Fetch(context.Background(), testLocation)
	require.Error(t, err)

	var unavailable *domain.DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "Mettams Pool", unavailable.Location)
	assert.Contains(t, err.Error(), "status 502")
}

func TestWaterTemperature(t *testing.T) {
	t.Run("averages the day's readings", func(t *testing.T) {
		body := `{"hourly": {"time": ["a", "b", "c"], "sea_surface_temperature": [23.0, null, 24.5]}}`
		client := newTestClient(t, serveJSON(t, body, func(r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("forecast_days"))
		}), serveJSON(t, weatherBody, nil), nil)

		got := client.WaterTemperature(context.Background(), -31.98, 115.75)
		require.NotNil(t, got)
		assert.Equal(t, 23.8, *got)
	})

	t.Run("nil on failure", func(t *testing.T) {
		down := func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}
		client := newTestClient(t, down, serveJSON(t, weatherBody, nil), nil)
		assert.Nil(t, client.WaterTemperature(context.Background(), -31.98, 115.75))
	})

	t.Run("nil when all readings are null", func(t *testing.T) {
		body := `{"hourly": {"time": ["a"], "sea_surface_temperature": [null]}}`
		client := newTestClient(t, serveJSON(t, body, nil), serveJSON(t, weatherBody, nil), nil)
		assert.Nil(t, client.WaterTemperature(context.Background(), -31.98, 115.75))
	})
}
