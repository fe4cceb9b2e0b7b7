package forecast

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/umahmood/haversine"

	"github.com/sandgroper/shorecast/internal/domain"
	"github.com/sandgroper/shorecast/internal/rating"
)

// Default daylight rating hours: scoring outside them tells nobody anything
// useful about a snorkel trip.
const (
	DefaultDayStartHour = 6
	DefaultDayEndHour   = 14 // inclusive
)

// Hidden-gem selection thresholds.
const (
	gemScoreTolerance = 0.75
	gemCrowdMargin    = 0.2
)

// Input is one location's contribution to a run: either a normalized record
// sequence or the error that prevented one. Errors are isolated per location.
type Input struct {
	Location domain.Location
	Records  []domain.HourlyRecord
	Daily    WeatherDaily
	// Err marks the location DataUnavailable for this run.
	Err error
	// Stale is set when Records came from cache data past the freshness
	// threshold.
	Stale bool
}

// Builder assembles a ForecastRun. It holds only configuration; Build is
// pure apart from reading the domain clock for the run timestamp, so a
// recorded input set reproduces an identical run under a frozen clock.
type Builder struct {
	Rater        rating.Rater
	WindowHours  int
	DayStartHour int
	DayEndHour   int
	WaterTempC   *float64
	Logger       *slog.Logger
}

// NewBuilder returns a Builder with the default daylight hours.
func NewBuilder(r rating.Rater, windowHours int, logger *slog.Logger) *Builder {
	return &Builder{
		Rater:        r,
		WindowHours:  windowHours,
		DayStartHour: DefaultDayStartHour,
		DayEndHour:   DefaultDayEndHour,
		Logger:       logger,
	}
}

// Build scores every input and assembles the run. Locations whose Input
// carries an error are listed in the run metadata and skipped; they never
// abort the others.
func (b *Builder) Build(inputs []Input) *domain.ForecastRun {
	run := &domain.ForecastRun{
		Meta: domain.RunMeta{
			GeneratedAt: domain.Now(),
			Mode:        string(b.Rater.Mode()),
			WindowHours: b.WindowHours,
		},
	}

	locByName := make(map[string]domain.Location, len(inputs))
	byDate := make(map[string][]domain.DailyForecast)

	for _, in := range inputs {
		if in.Err != nil {
			b.Logger.Warn("location skipped", "location", in.Location.Name, "error", in.Err)
			run.Meta.Failed = append(run.Meta.Failed, in.Location.Name)
			continue
		}
		if in.Stale {
			run.Meta.StaleCache = append(run.Meta.StaleCache, in.Location.Name)
		}
		locByName[in.Location.Name] = in.Location

		for date, dayRecs := range b.groupDays(in.Records) {
			df := SummarizeDay(date, dayRecs, in.Location, b.Rater, b.WindowHours)
			df.Sunrise, df.Sunset, df.UVMax = dailyPassThrough(in.Daily, date)
			df.WaterC = b.WaterTempC
			byDate[date] = append(byDate[date], df)
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		forecasts := byDate[date]
		sort.Slice(forecasts, func(a, b int) bool { return forecasts[a].Location < forecasts[b].Location })
		run.Days = append(run.Days, domain.ForecastDay{Date: date, Forecasts: forecasts})

		if gem, ok := hiddenGem(date, forecasts, locByName); ok {
			run.HiddenGems = append(run.HiddenGems, gem)
		}
	}

	run.BestSnorkel = topPick(run.Days, func(df domain.DailyForecast) *float64 { return df.SnorkelScore }, snorkelWhy)
	run.BestBeach = topPick(run.Days, func(df domain.DailyForecast) *float64 { return df.BeachScore }, beachWhy)

	return run
}

// groupDays buckets records by date, keeping only the daylight rating hours.
func (b *Builder) groupDays(recs []domain.HourlyRecord) map[string][]domain.HourlyRecord {
	days := make(map[string][]domain.HourlyRecord)
	for _, rec := range recs {
		if h := rec.Hour(); h < b.DayStartHour || h > b.DayEndHour {
			continue
		}
		days[rec.Date()] = append(days[rec.Date()], rec)
	}
	return days
}

// topPick scans the whole run for the highest score by the given accessor,
// earliest date and alphabetical location on ties. Non-viable picks are still
// reported so collaborators can render an explanation instead of silence.
func topPick(days []domain.ForecastDay, score func(domain.DailyForecast) *float64, why func(domain.DailyForecast) string) *domain.TopPick {
	var best *domain.TopPick
	for _, day := range days {
		for _, df := range day.Forecasts {
			s := score(df)
			if s == nil {
				continue
			}
			if best == nil || *s > best.Score {
				pick := domain.TopPick{
					Location: df.Location,
					Date:     df.Date,
					Score:    *s,
					Why:      why(df),
					Viable:   *s >= rating.ViableThreshold,
				}
				if df.BestWindow != nil {
					pick.Window = fmt.Sprintf("%02d:00-%02d:00", df.BestWindow.StartHour, df.BestWindow.EndHour)
				}
				best = &pick
			}
		}
	}
	return best
}

// hiddenGem surfaces the lower-crowd alternative closest in score to the
// day's top snorkel pick. The gem is never the top pick itself; it must sit
// within the score tolerance and have a materially lower crowd factor.
func hiddenGem(date string, forecasts []domain.DailyForecast, locs map[string]domain.Location) (domain.HiddenGem, bool) {
	var top *domain.DailyForecast
	for i := range forecasts {
		df := &forecasts[i]
		if df.SnorkelScore == nil {
			continue
		}
		if top == nil || *df.SnorkelScore > *top.SnorkelScore {
			top = df
		}
	}
	if top == nil {
		return domain.HiddenGem{}, false
	}
	topLoc := locs[top.Location]

	var gem *domain.HiddenGem
	for i := range forecasts {
		df := &forecasts[i]
		if df.Location == top.Location || df.SnorkelScore == nil {
			continue
		}
		loc := locs[df.Location]
		deficit := *top.SnorkelScore - *df.SnorkelScore
		if deficit > gemScoreTolerance || loc.CrowdFactor > topLoc.CrowdFactor-gemCrowdMargin {
			continue
		}
		if gem != nil && deficit >= gem.Deficit {
			continue
		}

		_, km := haversine.Distance(
			haversine.Coord{Lat: topLoc.Lat, Lon: topLoc.Lon},
			haversine.Coord{Lat: loc.Lat, Lon: loc.Lon},
		)
		gem = &domain.HiddenGem{
			Location:   df.Location,
			Date:       date,
			Score:      *df.SnorkelScore,
			Deficit:    round1(deficit),
			DistanceKm: round1(km),
			Why:        fmt.Sprintf("within %.1f points of %s, smaller crowds", deficit, top.Location),
		}
	}
	if gem == nil {
		return domain.HiddenGem{}, false
	}
	return *gem, true
}

func snorkelWhy(df domain.DailyForecast) string {
	if df.WaveAvg == nil || df.WindAvg == nil {
		return ""
	}
	return fmt.Sprintf("%.1fm waves, %.0fkm/h wind", *df.WaveAvg, *df.WindAvg)
}

func beachWhy(df domain.DailyForecast) string {
	if df.TempAvg == nil || df.WindAvg == nil {
		return ""
	}
	return fmt.Sprintf("%.0f°C, %.0fkm/h wind", *df.TempAvg, *df.WindAvg)
}

// Unavailable wraps an error as the per-location DataUnavailable condition.
func Unavailable(loc domain.Location, err error) error {
	var dua *domain.DataUnavailableError
	if errors.As(err, &dua) {
		return err
	}
	return &domain.DataUnavailableError{Location: loc.Name, Err: err}
}
