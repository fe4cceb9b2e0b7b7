// Package history persists forecast run snapshots for regression comparison
// and trend rendering. The store is append-only with a retention window:
// one scheduled run writes at a time, so no locking discipline beyond
// sqlite's own is needed.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sandgroper/shorecast/internal/domain"
)

// Store is the sqlite-backed run snapshot store.
type Store struct {
	db            *sql.DB
	retentionDays int
}

// Open opens (creating if needed) the history database and ensures the
// schema exists.
func Open(path string, retentionDays int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS forecast_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			generated_at DATETIME NOT NULL,
			mode TEXT NOT NULL,
			payload TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_forecast_runs_generated_at ON forecast_runs(generated_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating forecast_runs table: %w", err)
	}

	return &Store{db: db, retentionDays: retentionDays}, nil
}

// Append stores a run snapshot and prunes entries past the retention window.
func (s *Store) Append(ctx context.Context, run *domain.ForecastRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO forecast_runs (generated_at, mode, payload) VALUES (?, ?, ?)`,
		run.Meta.GeneratedAt.UTC().Format(time.RFC3339), run.Meta.Mode, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	cutoff := run.Meta.GeneratedAt.UTC().AddDate(0, 0, -s.retentionDays)
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM forecast_runs WHERE generated_at < ?`,
		cutoff.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.ForecastRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM forecast_runs ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ForecastRun
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var run domain.ForecastRun
		if err := json.Unmarshal([]byte(payload), &run); err != nil {
			return nil, fmt.Errorf("unmarshal run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Count returns the number of stored runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forecast_runs`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
