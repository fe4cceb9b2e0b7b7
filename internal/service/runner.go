// Package service orchestrates a forecast run: fetch every location, score,
// publish the run to its outputs, and record metrics.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sandgroper/shorecast/internal/adapter/notify"
	"github.com/sandgroper/shorecast/internal/adapter/openmeteo"
	"github.com/sandgroper/shorecast/internal/domain"
	"github.com/sandgroper/shorecast/internal/forecast"
	"github.com/sandgroper/shorecast/internal/observability"
)

const fetchConcurrency = 4

// Fetcher retrieves raw provider payloads for a location.
type Fetcher interface {
	Fetch(ctx context.Context, loc domain.Location) (openmeteo.Result, error)
	WaterTemperature(ctx context.Context, lat, lon float64) *float64
}

// HistoryStore persists completed runs.
type HistoryStore interface {
	Append(ctx context.Context, run *domain.ForecastRun) error
}

// Sink publishes per-day forecast events.
type Sink interface {
	PublishRun(ctx context.Context, run *domain.ForecastRun) (int, error)
}

// Notifier delivers run summaries.
type Notifier interface {
	Enabled() bool
	NotifyRun(ctx context.Context, run *domain.ForecastRun) []notify.Result
}

// Runner executes forecast runs end to end. History, sink, and notifier are
// optional; a nil field skips that output.
type Runner struct {
	Fetcher      Fetcher
	Builder      *forecast.Builder
	Locations    []domain.Location
	ForecastDays int
	OutputPath   string

	History  HistoryStore
	Sink     Sink
	Notifier Notifier

	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// RunOnce performs a single fetch-score-publish cycle and returns the
// completed run. Per-location failures are absorbed into the run metadata;
// only output errors (writing the run artifact) are fatal.
func (r *Runner) RunOnce(ctx context.Context) (*domain.ForecastRun, error) {
	start := time.Now()
	r.Logger.Info("forecast run starting", "locations", len(r.Locations), "days", r.ForecastDays)

	var water *float64
	if len(r.Locations) > 0 {
		water = r.Fetcher.WaterTemperature(ctx, r.Locations[0].Lat, r.Locations[0].Lon)
	}
	r.Builder.WaterTempC = water

	inputs := r.fetchAll(ctx)
	run := r.Builder.Build(inputs)

	r.Metrics.LocationsRated.Add(float64(len(r.Locations) - len(run.Meta.Failed)))
	r.Metrics.FetchFailures.Add(float64(len(run.Meta.Failed)))
	r.Metrics.CacheFallbacks.Add(float64(len(run.Meta.StaleCache)))

	if err := r.writeArtifact(run); err != nil {
		return nil, err
	}
	r.persist(ctx, run)
	r.publish(ctx, run)
	r.notify(ctx, run)

	r.Metrics.RunsTotal.Inc()
	r.Metrics.RunDuration.Observe(time.Since(start).Seconds())
	r.Metrics.LastRunEpoch.Set(float64(run.Meta.GeneratedAt.Unix()))

	r.Logger.Info("forecast run complete",
		"days", len(run.Days),
		"failed", len(run.Meta.Failed),
		"stale", len(run.Meta.StaleCache),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return run, nil
}

// fetchAll fans the per-location fetches out over a small worker pool and
// returns one Input per location, order preserved.
func (r *Runner) fetchAll(ctx context.Context) []forecast.Input {
	inputs := make([]forecast.Input, len(r.Locations))

	var wg sync.WaitGroup
	sem := make(chan struct{}, fetchConcurrency)
	for i, loc := range r.Locations {
		wg.Add(1)
		go func(i int, loc domain.Location) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			inputs[i] = r.fetchOne(ctx, loc)
		}(i, loc)
	}
	wg.Wait()

	return inputs
}

func (r *Runner) fetchOne(ctx context.Context, loc domain.Location) forecast.Input {
	in := forecast.Input{Location: loc}

	res, err := r.Fetcher.Fetch(ctx, loc)
	if err != nil {
		in.Err = forecast.Unavailable(loc, err)
		return in
	}
	in.Stale = res.Stale

	recs, err := forecast.Normalize(res.Data, r.ForecastDays)
	if err != nil {
		in.Err = forecast.Unavailable(loc, err)
		return in
	}
	in.Records = recs
	in.Daily = res.Data.Weather.Daily
	return in
}

// writeArtifact writes the run JSON to the configured output path. This is
// the artifact static dashboards render, so failing to write it fails the run.
func (r *Runner) writeArtifact(run *domain.ForecastRun) error {
	if r.OutputPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(r.OutputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(r.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("write run artifact: %w", err)
	}
	r.Logger.Info("run artifact written", "path", r.OutputPath, "bytes", len(data))
	return nil
}

func (r *Runner) persist(ctx context.Context, run *domain.ForecastRun) {
	if r.History == nil {
		return
	}
	if err := r.History.Append(ctx, run); err != nil {
		r.Logger.Error("history append failed", "error", err)
	}
}

func (r *Runner) publish(ctx context.Context, run *domain.ForecastRun) {
	if r.Sink == nil {
		return
	}
	n, err := r.Sink.PublishRun(ctx, run)
	if err != nil {
		r.Logger.Error("forecast publish failed", "error", err)
		return
	}
	r.Metrics.ForecastsPublished.Add(float64(n))
	r.Logger.Info("forecasts published", "messages", n)
}

func (r *Runner) notify(ctx context.Context, run *domain.ForecastRun) {
	if r.Notifier == nil || !r.Notifier.Enabled() {
		return
	}
	for _, res := range r.Notifier.NotifyRun(ctx, run) {
		outcome := "ok"
		if res.Err != nil {
			outcome = "error"
		}
		r.Metrics.NotificationsSent.WithLabelValues(res.Channel, outcome).Inc()
	}
}
