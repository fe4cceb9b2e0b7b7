package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandgroper/shorecast/internal/adapter/notify"
	"github.com/sandgroper/shorecast/internal/adapter/openmeteo"
	"github.com/sandgroper/shorecast/internal/domain"
	"github.com/sandgroper/shorecast/internal/forecast"
	"github.com/sandgroper/shorecast/internal/observability"
	"github.com/sandgroper/shorecast/internal/rating"
)

// --- fakes ---

type fakeFetcher struct {
	results map[string]openmeteo.Result
	errs    map[string]error
	water   *float64

	waterCalls int
}

func (f *fakeFetcher) Fetch(_ context.Context, loc domain.Location) (openmeteo.Result, error) {
	if err, ok := f.errs[loc.Name]; ok {
		return openmeteo.Result{}, err
	}
	return f.results[loc.Name], nil
}

func (f *fakeFetcher) WaterTemperature(_ context.Context, _, _ float64) *float64 {
	f.waterCalls++
	return f.water
}

type fakeHistory struct {
	appended []*domain.ForecastRun
	err      error
}

func (h *fakeHistory) Append(_ context.Context, run *domain.ForecastRun) error {
	h.appended = append(h.appended, run)
	return h.err
}

type fakeSink struct {
	published []*domain.ForecastRun
	err       error
}

func (s *fakeSink) PublishRun(_ context.Context, run *domain.ForecastRun) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.published = append(s.published, run)
	n := 0
	for _, day := range run.Days {
		n += len(day.Forecasts)
	}
	return n, nil
}

type fakeNotifier struct {
	enabled bool
	runs    []*domain.ForecastRun
	results []notify.Result
}

func (n *fakeNotifier) Enabled() bool { return n.enabled }

func (n *fakeNotifier) NotifyRun(_ context.Context, run *domain.ForecastRun) []notify.Result {
	n.runs = append(n.runs, run)
	return n.results
}

// --- helpers ---

var (
	lagoonLoc = domain.Location{
		Name: "Mettams Pool", Area: "Trigg",
		Lat: -31.8195, Lon: 115.7517,
		Category:       domain.CategorySnorkel,
		ShoreNormalDeg: 270,
		ShelterFrom:    []string{"W", "SW"},
		ShelterFactor:  0.8,
		CrowdFactor:    0.8,
	}
	beachLoc = domain.Location{
		Name: "Swanbourne Beach", Area: "Swanbourne",
		Lat: -31.9672, Lon: 115.7583,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: 270,
		ShelterFactor:  0.2,
		CrowdFactor:    0.3,
	}
)

func calmPayload(hours int) forecast.RawLocationData {
	fp := func(v float64) *float64 { return &v }
	var raw forecast.RawLocationData
	for i := 0; i < hours; i++ {
		ts := fmt.Sprintf("2026-02-%02dT%02d:00", 2+i/24, i%24)
		raw.Weather.Hourly.Time = append(raw.Weather.Hourly.Time, ts)
		raw.Weather.Hourly.Temperature2m = append(raw.Weather.Hourly.Temperature2m, fp(28))
		raw.Weather.Hourly.ApparentTemperature = append(raw.Weather.Hourly.ApparentTemperature, fp(29))
		raw.Weather.Hourly.WindSpeed10m = append(raw.Weather.Hourly.WindSpeed10m, fp(8))
		raw.Weather.Hourly.WindDirection10m = append(raw.Weather.Hourly.WindDirection10m, fp(90))
		raw.Weather.Hourly.WindGusts10m = append(raw.Weather.Hourly.WindGusts10m, fp(11))
		raw.Weather.Hourly.CloudCover = append(raw.Weather.Hourly.CloudCover, fp(20))
		raw.Weather.Hourly.UVIndex = append(raw.Weather.Hourly.UVIndex, fp(5))
		raw.Weather.Hourly.PrecipitationProbability = append(raw.Weather.Hourly.PrecipitationProbability, fp(5))

		raw.Marine.Hourly.Time = append(raw.Marine.Hourly.Time, ts)
		raw.Marine.Hourly.WaveHeight = append(raw.Marine.Hourly.WaveHeight, fp(0.25))
		raw.Marine.Hourly.SwellWavePeriod = append(raw.Marine.Hourly.SwellWavePeriod, fp(12))
		raw.Marine.Hourly.SeaSurfaceTemperature = append(raw.Marine.Hourly.SeaSurfaceTemperature, fp(24.5))
	}
	raw.Weather.Daily.Time = []string{"2026-02-02"}
	raw.Weather.Daily.Sunrise = []string{"2026-02-02T05:32"}
	raw.Weather.Daily.Sunset = []string{"2026-02-02T19:21"}
	uvMax := 11.0
	raw.Weather.Daily.UVIndexMax = []*float64{&uvMax}
	return raw
}

func newTestRunner(t *testing.T, fetcher *fakeFetcher) *Runner {
	t.Helper()
	rater := rating.New(rating.ModeV6, rating.DefaultCalibration())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Runner{
		Fetcher:      fetcher,
		Builder:      forecast.NewBuilder(rater, 3, logger),
		Locations:    []domain.Location{lagoonLoc, beachLoc},
		ForecastDays: 1,
		OutputPath:   filepath.Join(t.TempDir(), "out", "forecast.json"),
		Metrics:      observability.NewMetricsForTesting(),
		Logger:       logger,
	}
}

// --- tests ---

func TestRunOnce(t *testing.T) {
	water := 23.4
	fetcher := &fakeFetcher{
		results: map[string]openmeteo.Result{
			lagoonLoc.Name: {Data: calmPayload(24)},
			beachLoc.Name:  {Data: calmPayload(24)},
		},
		water: &water,
	}
	r := newTestRunner(t, fetcher)

	run, err := r.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.waterCalls)
	assert.Empty(t, run.Meta.Failed)
	require.Len(t, run.Days, 1)
	require.Len(t, run.Days[0].Forecasts, 2)

	df := run.Days[0].Forecasts[0]
	assert.Equal(t, "Mettams Pool", df.Location)
	require.NotNil(t, df.WaterC)
	assert.Equal(t, 23.4, *df.WaterC)
	assert.Equal(t, "2026-02-02T05:32", df.Sunrise)

	data, err := os.ReadFile(r.OutputPath)
	require.NoError(t, err)
	var written domain.ForecastRun
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, run.Meta.GeneratedAt.Unix(), written.Meta.GeneratedAt.Unix())
	assert.Len(t, written.Days, 1)
}

func TestRunOnce_PartialFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		results: map[string]openmeteo.Result{
			lagoonLoc.Name: {Data: calmPayload(24)},
		},
		errs: map[string]error{
			beachLoc.Name: errors.New("upstream down"),
		},
	}
	r := newTestRunner(t, fetcher)

	run, err := r.RunOnce(context.Background())
	require.NoError(t, err, "one failed location does not fail the run")
	assert.Equal(t, []string{"Swanbourne Beach"}, run.Meta.Failed)
	require.Len(t, run.Days, 1)
	assert.Len(t, run.Days[0].Forecasts, 1)
}

func TestRunOnce_StaleCacheRecorded(t *testing.T) {
	fetcher := &fakeFetcher{
		results: map[string]openmeteo.Result{
			lagoonLoc.Name: {Data: calmPayload(24), Stale: true},
			beachLoc.Name:  {Data: calmPayload(24)},
		},
	}
	r := newTestRunner(t, fetcher)

	run, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Mettams Pool"}, run.Meta.StaleCache)
}

func TestRunOnce_OptionalOutputs(t *testing.T) {
	fetcher := &fakeFetcher{
		results: map[string]openmeteo.Result{
			lagoonLoc.Name: {Data: calmPayload(24)},
			beachLoc.Name:  {Data: calmPayload(24)},
		},
	}

	t.Run("all wired", func(t *testing.T) {
		r := newTestRunner(t, fetcher)
		history := &fakeHistory{}
		sink := &fakeSink{}
		notifier := &fakeNotifier{enabled: true, results: []notify.Result{{Channel: "telegram"}}}
		r.History = history
		r.Sink = sink
		r.Notifier = notifier

		run, err := r.RunOnce(context.Background())
		require.NoError(t, err)

		require.Len(t, history.appended, 1)
		assert.Same(t, run, history.appended[0])
		require.Len(t, sink.published, 1)
		require.Len(t, notifier.runs, 1)
	})

	t.Run("nil outputs are skipped", func(t *testing.T) {
		r := newTestRunner(t, fetcher)
		_, err := r.RunOnce(context.Background())
		require.NoError(t, err)
	})

	t.Run("disabled notifier is not called", func(t *testing.T) {
		r := newTestRunner(t, fetcher)
		notifier := &fakeNotifier{enabled: false}
		r.Notifier = notifier

		_, err := r.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Empty(t, notifier.runs)
	})

	t.Run("history and sink errors are absorbed", func(t *testing.T) {
		r := newTestRunner(t, fetcher)
		r.History = &fakeHistory{err: errors.New("disk full")}
		r.Sink = &fakeSink{err: errors.New("broker down")}

		_, err := r.RunOnce(context.Background())
		require.NoError(t, err)
	})
}

func TestRunOnce_ArtifactWriteFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{
		results: map[string]openmeteo.Result{
			lagoonLoc.Name: {Data: calmPayload(24)},
			beachLoc.Name:  {Data: calmPayload(24)},
		},
	}
	r := newTestRunner(t, fetcher)

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	r.OutputPath = filepath.Join(blocker, "forecast.json")

	_, err := r.RunOnce(context.Background())
	require.Error(t, err)
}

func TestRunOnce_EmptyOutputPathSkipsArtifact(t *testing.T) {
	fetcher := &fakeFetcher{
		results: map[string]openmeteo.Result{
			lagoonLoc.Name: {Data: calmPayload(24)},
			beachLoc.Name:  {Data: calmPayload(24)},
		},
	}
	r := newTestRunner(t, fetcher)
	r.OutputPath = ""

	_, err := r.RunOnce(context.Background())
	require.NoError(t, err)
}
