// Package http exposes the service's HTTP surface: health and readiness
// probes, Prometheus metrics, and read-only forecast endpoints backed by the
// most recent completed run.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sandgroper/shorecast/internal/domain"
)

// Server exposes health, readiness, metrics, and forecast HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	latest     atomic.Pointer[domain.ForecastRun]
	locations  []domain.Location
}

// NewServer creates an HTTP server. The forecast endpoints return 503 until
// SetLatest has been called with a completed run.
func NewServer(addr string, locations []domain.Location, logger *slog.Logger) *Server {
	s := &Server{logger: logger, locations: locations}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/forecast", s.handleForecast).Methods(http.MethodGet)
	r.HandleFunc("/api/forecast/{location}", s.handleLocationForecast).Methods(http.MethodGet)
	r.HandleFunc("/api/locations", s.handleLocations).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handlers.CombinedLoggingHandler(slogWriter{logger}, r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// SetLatest publishes a completed run to the forecast endpoints.
func (s *Server) SetLatest(run *domain.ForecastRun) {
	s.latest.Store(run)
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.latest.Load() == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting for first run"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleForecast(w http.ResponseWriter, _ *http.Request) {
	run := s.latest.Load()
	if run == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no forecast available yet"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleLocationForecast(w http.ResponseWriter, r *http.Request) {
	run := s.latest.Load()
	if run == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no forecast available yet"})
		return
	}
	name := mux.Vars(r)["location"]

	var matched []domain.DailyForecast
	for _, day := range run.Days {
		for _, df := range day.Forecasts {
			if df.Location == name {
				matched = append(matched, df)
			}
		}
	}
	if len(matched) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown location: " + name})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"location":     name,
		"generated_at": run.Meta.GeneratedAt,
		"days":         matched,
	})
}

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.locations)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// slogWriter adapts a slog.Logger to the io.Writer the access-log middleware
// expects. Each log line becomes one info record.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Write(p []byte) (int, error) {
	n := len(p)
	for n > 0 && (p[n-1] == '\n' || p[n-1] == '\r') {
		n--
	}
	w.logger.Info("http access", "line", string(p[:n]))
	return len(p), nil
}
