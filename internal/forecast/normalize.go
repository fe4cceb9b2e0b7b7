package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/sandgroper/shorecast/internal/domain"
)

// hourlyTimeLayout is the local ISO layout Open-Meteo uses for hourly stamps.
const hourlyTimeLayout = "2006-01-02T15:04"

// Documented fallbacks for non-marine fields the scoring formulas expect to
// be present. Marine fields get no fallback: absence stays absence.
const (
	defaultUVIndex = 5
)

// Normalize maps a raw payload onto the canonical hourly grid for the given
// horizon. Hours missing the atmospheric essentials (wind speed, air
// temperature) are dropped, leaving an explicit gap; marine series are joined
// by timestamp so a shorter marine response yields records with nil marine
// fields rather than zeros.
func Normalize(raw RawLocationData, horizonDays int) ([]domain.HourlyRecord, error) {
	wh := raw.Weather.Hourly
	if len(wh.Time) == 0 {
		return nil, fmt.Errorf("normalize: weather payload has no hourly data")
	}

	marineIdx := make(map[string]int, len(raw.Marine.Hourly.Time))
	for i, ts := range raw.Marine.Hourly.Time {
		marineIdx[ts] = i
	}

	firstDay, err := time.Parse(hourlyTimeLayout, wh.Time[0])
	if err != nil {
		return nil, fmt.Errorf("normalize: bad first timestamp %q: %w", wh.Time[0], err)
	}
	horizonEnd := firstDay.Truncate(24 * time.Hour).AddDate(0, 0, horizonDays)

	records := make([]domain.HourlyRecord, 0, len(wh.Time))
	for i, ts := range wh.Time {
		t, err := time.Parse(hourlyTimeLayout, ts)
		if err != nil {
			continue
		}
		if !t.Before(horizonEnd) {
			break
		}

		wind := at(wh.WindSpeed10m, i)
		temp := at(wh.Temperature2m, i)
		if wind == nil || temp == nil {
			// Explicit gap: downstream windows skip it instead of
			// scoring invented calm.
			continue
		}

		rec := domain.HourlyRecord{
			Time:       t,
			WindSpeed:  *wind,
			AirTemp:    *temp,
			FeelsLike:  at(wh.ApparentTemperature, i),
			WindGusts:  at(wh.WindGusts10m, i),
			WindDirDeg: at(wh.WindDirection10m, i),
			UVIndex:    orElse(at(wh.UVIndex, i), defaultUVIndex),
			CloudCover: orElse(at(wh.CloudCover, i), 0),
			PrecipProb: orElse(at(wh.PrecipitationProbability, i), 0),
		}

		if mi, ok := marineIdx[ts]; ok {
			mh := raw.Marine.Hourly
			rec.WaveHeight = at(mh.WaveHeight, mi)
			rec.WavePeriod = at(mh.SwellWavePeriod, mi)
			rec.SeaTemp = at(mh.SeaSurfaceTemperature, mi)
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("normalize: no usable hours in payload")
	}

	sort.Slice(records, func(a, b int) bool { return records[a].Time.Before(records[b].Time) })
	return records, nil
}

// dailyPassThrough pulls the sunrise/sunset/UV-max fields for a date out of
// the daily series, returning zero values when the date is not covered.
func dailyPassThrough(daily WeatherDaily, date string) (sunrise, sunset string, uvMax *float64) {
	for i, d := range daily.Time {
		if d != date {
			continue
		}
		sunrise = clockPart(at(daily.Sunrise, i))
		sunset = clockPart(at(daily.Sunset, i))
		uvMax = at(daily.UVIndexMax, i)
		return
	}
	return
}

// clockPart strips the date from an ISO local timestamp, "2026-02-02T05:31"
// -> "05:31".
func clockPart(ts string) string {
	if idx := len("2006-01-02"); len(ts) > idx+1 && ts[idx] == 'T' {
		return ts[idx+1:]
	}
	return ts
}

func orElse(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
