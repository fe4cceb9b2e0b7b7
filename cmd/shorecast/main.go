package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandgroper/shorecast/internal/adapter/history"
	httpadapter "github.com/sandgroper/shorecast/internal/adapter/http"
	kafkaadapter "github.com/sandgroper/shorecast/internal/adapter/kafka"
	"github.com/sandgroper/shorecast/internal/adapter/notify"
	"github.com/sandgroper/shorecast/internal/adapter/openmeteo"
	"github.com/sandgroper/shorecast/internal/config"
	"github.com/sandgroper/shorecast/internal/forecast"
	"github.com/sandgroper/shorecast/internal/locations"
	"github.com/sandgroper/shorecast/internal/observability"
	"github.com/sandgroper/shorecast/internal/rating"
	"github.com/sandgroper/shorecast/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	locs, err := locations.Load(cfg.LocationsFile)
	if err != nil {
		logger.Error("failed to load locations", "error", err)
		os.Exit(1)
	}

	mode, err := rating.ParseMode(cfg.RatingMode)
	if err != nil {
		logger.Error("invalid rating mode", "error", err)
		os.Exit(1)
	}
	rater := rating.New(mode, rating.DefaultCalibration())

	cache, err := openmeteo.NewFileCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		logger.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	client := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.MarineBaseURL, cfg.FetchTimeout, cfg.ForecastDays, cache, logger)

	runner := &service.Runner{
		Fetcher:      client,
		Builder:      forecast.NewBuilder(rater, cfg.WindowHours, logger),
		Locations:    locs,
		ForecastDays: cfg.ForecastDays,
		OutputPath:   cfg.OutputPath,
		Metrics:      metrics,
		Logger:       logger,
	}

	store, err := history.Open(cfg.HistoryDBPath, cfg.HistoryRetentionDays)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	runner.History = store

	var sink *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		sink = kafkaadapter.NewWriter(cfg, logger)
		runner.Sink = sink
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	}

	notifier := notify.NewNotifier(cfg, logger)
	if notifier.Enabled() {
		runner.Notifier = notifier
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunInterval <= 0 {
		// Scheduled from outside (cron, CI); one run and exit.
		run, err := runner.RunOnce(ctx)
		if err != nil {
			logger.Error("forecast run failed", "error", err)
			os.Exit(1)
		}
		if sink != nil {
			if err := sink.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}
		if len(run.Meta.Failed) == len(locs) {
			logger.Error("all locations failed")
			os.Exit(1)
		}
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, locs, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.RunInterval)
		defer ticker.Stop()
		for {
			if run, err := runner.RunOnce(ctx); err != nil {
				logger.Error("forecast run failed", "error", err)
			} else {
				srv.SetLatest(run)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
