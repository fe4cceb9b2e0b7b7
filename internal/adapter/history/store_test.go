package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandgroper/shorecast/internal/domain"
)

func openTestStore(t *testing.T, retentionDays int) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), retentionDays)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func runAt(generatedAt time.Time, label string) *domain.ForecastRun {
	score := 8.2
	return &domain.ForecastRun{
		Meta: domain.RunMeta{GeneratedAt: generatedAt, Mode: "v6", WindowHours: 3},
		Days: []domain.ForecastDay{
			{
				Date: generatedAt.Format("2006-01-02"),
				Forecasts: []domain.DailyForecast{
					{Date: generatedAt.Format("2006-01-02"), Location: label, SnorkelScore: &score, SnorkelLabel: "Great"},
				},
			},
		},
	}
}

func TestStore_AppendAndRecent(t *testing.T) {
	store := openTestStore(t, 180)
	ctx := context.Background()

	base := time.Date(2026, 2, 2, 5, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, runAt(base, "Mettams Pool")))
	require.NoError(t, store.Append(ctx, runAt(base.Add(24*time.Hour), "Yanchep Lagoon")))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "Yanchep Lagoon", runs[0].Days[0].Forecasts[0].Location, "newest first")
	assert.Equal(t, "Mettams Pool", runs[1].Days[0].Forecasts[0].Location)
	assert.Equal(t, "v6", runs[0].Meta.Mode)
	require.NotNil(t, runs[0].Days[0].Forecasts[0].SnorkelScore)
	assert.Equal(t, 8.2, *runs[0].Days[0].Forecasts[0].SnorkelScore)
}

func TestStore_RecentHonorsLimit(t *testing.T) {
	store := openTestStore(t, 180)
	ctx := context.Background()

	base := time.Date(2026, 2, 2, 5, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, runAt(base.Add(time.Duration(i)*time.Hour), "Trigg Beach")))
	}

	runs, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestStore_Count(t *testing.T) {
	store := openTestStore(t, 180)
	ctx := context.Background()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, store.Append(ctx, runAt(time.Date(2026, 2, 2, 5, 0, 0, 0, time.UTC), "Mettams Pool")))

	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_RetentionPrunesOldRuns(t *testing.T) {
	store := openTestStore(t, 30)
	ctx := context.Background()

	now := time.Date(2026, 2, 2, 5, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, runAt(now.AddDate(0, 0, -40), "Old Run")))
	require.NoError(t, store.Append(ctx, runAt(now.AddDate(0, 0, -10), "Kept Run")))
	require.NoError(t, store.Append(ctx, runAt(now, "New Run")))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2, "run outside the retention window is pruned")
	assert.Equal(t, "New Run", runs[0].Days[0].Forecasts[0].Location)
	assert.Equal(t, "Kept Run", runs[1].Days[0].Forecasts[0].Location)
}
