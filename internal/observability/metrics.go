package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histogram, and gauge for the
// forecast service.
type Metrics struct {
	RunsTotal    prometheus.Counter
	RunDuration  prometheus.Histogram
	LastRunEpoch prometheus.Gauge

	LocationsRated prometheus.Counter
	FetchFailures  prometheus.Counter
	CacheFallbacks prometheus.Counter

	ForecastsPublished prometheus.Counter
	NotificationsSent  *prometheus.CounterVec // labels: channel, outcome
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shorecast",
			Name:      "runs_total",
			Help:      "Total forecast runs completed.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shorecast",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-score-publish run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		LastRunEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shorecast",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
		LocationsRated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shorecast",
			Name:      "locations_rated_total",
			Help:      "Locations successfully fetched, normalized, and scored.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shorecast",
			Name:      "fetch_failures_total",
			Help:      "Per-location fetch failures with no usable cache fallback.",
		}),
		CacheFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shorecast",
			Name:      "cache_fallbacks_total",
			Help:      "Locations scored from cached data after a fetch failure.",
		}),
		ForecastsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shorecast",
			Name:      "forecasts_published_total",
			Help:      "Daily forecast events published to the sink topic.",
		}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shorecast",
			Name:      "notifications_sent_total",
			Help:      "Notification attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.LastRunEpoch,
		m.LocationsRated,
		m.FetchFailures,
		m.CacheFallbacks,
		m.ForecastsPublished,
		m.NotificationsSent,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shorecast", Name: "runs_total"}),
		RunDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "shorecast", Name: "run_duration_seconds"}),
		LastRunEpoch:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "shorecast", Name: "last_run_timestamp_seconds"}),
		LocationsRated:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shorecast", Name: "locations_rated_total"}),
		FetchFailures:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shorecast", Name: "fetch_failures_total"}),
		CacheFallbacks:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shorecast", Name: "cache_fallbacks_total"}),
		ForecastsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shorecast", Name: "forecasts_published_total"}),
		NotificationsSent:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "shorecast", Name: "notifications_sent_total"}, []string{"channel", "outcome"}),
	}
}
