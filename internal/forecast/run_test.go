package forecast

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandgroper/shorecast/internal/domain"
	"github.com/sandgroper/shorecast/internal/rating"
)

func testBuilder() *Builder {
	r := rating.New(rating.ModeV6, rating.DefaultCalibration())
	return NewBuilder(r, 3, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// locRecords spans two days of daylight hours plus off-hours that the
// builder must filter out.
func locRecords(mutate func(*domain.HourlyRecord)) []domain.HourlyRecord {
	var recs []domain.HourlyRecord
	for day := 2; day <= 3; day++ {
		for hour := 4; hour <= 16; hour++ {
			r := dayRec(hour, mutate)
			r.Time = time.Date(2026, 2, day, hour, 0, 0, 0, time.UTC)
			recs = append(recs, r)
		}
	}
	return recs
}

func TestBuilderBuild(t *testing.T) {
	quietReef := domain.Location{
		Name:           "Quiet Reef",
		Category:       domain.CategorySnorkel,
		Lat:            -31.87,
		Lon:            115.75,
		ShoreNormalDeg: 270,
		ShelterFrom:    []string{"SW", "W"},
		ShelterFactor:  0.8,
		CrowdFactor:    0.3,
	}

	t.Run("assembles days in order with sorted forecasts", func(t *testing.T) {
		b := testBuilder()
		run := b.Build([]Input{
			{Location: testLagoon, Records: locRecords(nil)},
			{Location: testBeachOnly, Records: locRecords(nil)},
		})

		require.Len(t, run.Days, 2)
		assert.Equal(t, "2026-02-02", run.Days[0].Date)
		assert.Equal(t, "2026-02-03", run.Days[1].Date)

		require.Len(t, run.Days[0].Forecasts, 2)
		assert.Equal(t, "City Beach", run.Days[0].Forecasts[0].Location)
		assert.Equal(t, "Mettams Pool", run.Days[0].Forecasts[1].Location)
		assert.Equal(t, "v6", run.Meta.Mode)
		assert.Empty(t, run.Meta.Failed)
	})

	t.Run("filters to daylight hours", func(t *testing.T) {
		b := testBuilder()
		run := b.Build([]Input{{Location: testLagoon, Records: locRecords(nil)}})

		require.NotEmpty(t, run.Days)
		bw := run.Days[0].Forecasts[0].BestWindow
		require.NotNil(t, bw)
		assert.GreaterOrEqual(t, bw.StartHour, DefaultDayStartHour)
		assert.LessOrEqual(t, bw.EndHour, DefaultDayEndHour+1)
	})

	t.Run("failed location is isolated", func(t *testing.T) {
		b := testBuilder()
		run := b.Build([]Input{
			{Location: testLagoon, Records: locRecords(nil)},
			{Location: quietReef, Err: errors.New("connection refused")},
		})

		assert.Equal(t, []string{"Quiet Reef"}, run.Meta.Failed)
		require.Len(t, run.Days, 2)
		require.Len(t, run.Days[0].Forecasts, 1)
		assert.Equal(t, "Mettams Pool", run.Days[0].Forecasts[0].Location)
	})

	t.Run("stale inputs are recorded", func(t *testing.T) {
		b := testBuilder()
		run := b.Build([]Input{
			{Location: testLagoon, Records: locRecords(nil), Stale: true},
		})
		assert.Equal(t, []string{"Mettams Pool"}, run.Meta.StaleCache)
	})

	t.Run("water temperature is attached to every forecast", func(t *testing.T) {
		b := testBuilder()
		water := 23.5
		b.WaterTempC = &water
		run := b.Build([]Input{{Location: testLagoon, Records: locRecords(nil)}})

		df := run.Days[0].Forecasts[0]
		require.NotNil(t, df.WaterC)
		assert.Equal(t, 23.5, *df.WaterC)
	})

	t.Run("daily pass-through fields flow into the forecast", func(t *testing.T) {
		b := testBuilder()
		daily := WeatherDaily{
			Time:       []string{"2026-02-02"},
			Sunrise:    []string{"2026-02-02T05:31"},
			Sunset:     []string{"2026-02-02T19:20"},
			UVIndexMax: []*float64{fptr(11.0)},
		}
		run := b.Build([]Input{{Location: testLagoon, Records: locRecords(nil), Daily: daily}})

		df := run.Days[0].Forecasts[0]
		assert.Equal(t, "05:31", df.Sunrise)
		assert.Equal(t, "19:20", df.Sunset)
		require.NotNil(t, df.UVMax)
		assert.Equal(t, 11.0, *df.UVMax)
	})

	t.Run("top picks", func(t *testing.T) {
		b := testBuilder()
		rough := func(h *domain.HourlyRecord) {
			h.WaveHeight = fptr(1.1)
			h.WindSpeed = 32
			h.WindDirDeg = fptr(270)
		}
		run := b.Build([]Input{
			{Location: testLagoon, Records: locRecords(nil)},
			{Location: quietReef, Records: locRecords(rough)},
		})

		require.NotNil(t, run.BestSnorkel)
		assert.Equal(t, "Mettams Pool", run.BestSnorkel.Location)
		assert.True(t, run.BestSnorkel.Viable)
		assert.NotEmpty(t, run.BestSnorkel.Window)
		assert.NotEmpty(t, run.BestSnorkel.Why)

		require.NotNil(t, run.BestBeach)
		assert.Equal(t, "Mettams Pool", run.BestBeach.Location)
	})

	t.Run("non-viable top pick is reported, not hidden", func(t *testing.T) {
		b := testBuilder()
		rough := func(h *domain.HourlyRecord) {
			h.WaveHeight = fptr(1.5)
			h.WindSpeed = 40
			h.WindDirDeg = fptr(270)
			h.WavePeriod = fptr(4)
		}
		run := b.Build([]Input{{Location: quietReef, Records: locRecords(rough)}})

		require.NotNil(t, run.BestSnorkel)
		assert.False(t, run.BestSnorkel.Viable)
		assert.Less(t, run.BestSnorkel.Score, rating.ViableThreshold)
	})

	t.Run("hidden gem is the quieter near-equal, never the top pick", func(t *testing.T) {
		b := testBuilder()
		run := b.Build([]Input{
			{Location: testLagoon, Records: locRecords(nil)},
			{Location: quietReef, Records: locRecords(nil)},
		})

		require.NotEmpty(t, run.HiddenGems)
		gem := run.HiddenGems[0]
		assert.Equal(t, "Quiet Reef", gem.Location)
		assert.LessOrEqual(t, gem.Deficit, 0.75)
		assert.Greater(t, gem.DistanceKm, 0.0)
		if run.BestSnorkel != nil {
			assert.NotEqual(t, run.BestSnorkel.Location, gem.Location)
		}
	})

	t.Run("no gem when the alternative is just as crowded", func(t *testing.T) {
		b := testBuilder()
		busyReef := quietReef
		busyReef.Name = "Busy Reef"
		busyReef.CrowdFactor = 0.85
		run := b.Build([]Input{
			{Location: testLagoon, Records: locRecords(nil)},
			{Location: busyReef, Records: locRecords(nil)},
		})
		assert.Empty(t, run.HiddenGems)
	})

	t.Run("reproducible under a frozen clock", func(t *testing.T) {
		at := time.Date(2026, 2, 2, 6, 0, 0, 0, time.UTC)
		domain.SetClock(clockwork.NewFakeClockAt(at))
		defer domain.SetClock(nil)

		b := testBuilder()
		inputs := []Input{
			{Location: testLagoon, Records: locRecords(nil)},
			{Location: quietReef, Records: locRecords(nil)},
		}
		first := b.Build(inputs)
		second := b.Build(inputs)

		assert.Equal(t, at, first.Meta.GeneratedAt)
		assert.Equal(t, first, second)
	})
}

func TestUnavailable(t *testing.T) {
	loc := domain.Location{Name: "Somewhere"}

	t.Run("wraps plain errors", func(t *testing.T) {
		err := Unavailable(loc, errors.New("boom"))
		var dua *domain.DataUnavailableError
		require.ErrorAs(t, err, &dua)
		assert.Equal(t, "Somewhere", dua.Location)
	})

	t.Run("does not double-wrap", func(t *testing.T) {
		orig := &domain.DataUnavailableError{Location: "Somewhere", Err: errors.New("boom")}
		err := Unavailable(loc, orig)
		assert.Same(t, orig, err)
	})
}
