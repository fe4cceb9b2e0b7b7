package rating

import (
	"math"

	"github.com/sandgroper/shorecast/internal/domain"
)

// BestWindow picks the contiguous width-hour window with the best snorkel
// score, evaluated on the window's averaged conditions rather than any single
// sampled hour. Ties go to the earliest start. With width 1 this degenerates
// to the legacy single-best-hour pick.
//
// Records must be time-ordered. Windows spanning a gap in the hourly sequence
// are not considered; if no contiguous window of the requested width exists,
// the earliest hour is rated alone as a fallback.
func BestWindow(recs []domain.HourlyRecord, loc domain.Location, r Rater, width int) (domain.BestWindow, bool) {
	if len(recs) == 0 {
		return domain.BestWindow{}, false
	}
	if width < 1 {
		width = 1
	}

	best := domain.BestWindow{Score: -1}
	for i := 0; i+width <= len(recs); i++ {
		window := recs[i : i+width]
		if window[width-1].Hour()-window[0].Hour() != width-1 {
			continue
		}

		bd := r.Snorkel(AverageWindow(window), loc)
		if bd.Score > best.Score {
			best = domain.BestWindow{
				StartHour: window[0].Hour(),
				EndHour:   window[0].Hour() + width,
				Score:     bd.Score,
			}
		}
	}

	if best.Score < 0 {
		bd := r.Snorkel(recs[0], loc)
		return domain.BestWindow{
			StartHour: recs[0].Hour(),
			EndHour:   recs[0].Hour() + 1,
			Score:     bd.Score,
		}, true
	}
	return best, true
}

// AverageWindow collapses a window of hourly records into one synthetic
// record of window means. Nullable fields average over the present readings
// only and stay nil when every hour is missing; wind direction uses the
// circular mean so a window straddling north does not average to south.
func AverageWindow(window []domain.HourlyRecord) domain.HourlyRecord {
	if len(window) == 1 {
		return window[0]
	}

	out := domain.HourlyRecord{Time: window[0].Time}
	n := float64(len(window))

	var windSpeed, airTemp, uv, cloud, precip float64
	for _, rec := range window {
		windSpeed += rec.WindSpeed
		airTemp += rec.AirTemp
		uv += rec.UVIndex
		cloud += rec.CloudCover
		precip += rec.PrecipProb
	}
	out.WindSpeed = windSpeed / n
	out.AirTemp = airTemp / n
	out.UVIndex = uv / n
	out.CloudCover = cloud / n
	out.PrecipProb = precip / n

	out.WaveHeight = meanPresent(window, func(r domain.HourlyRecord) *float64 { return r.WaveHeight })
	out.WavePeriod = meanPresent(window, func(r domain.HourlyRecord) *float64 { return r.WavePeriod })
	out.SeaTemp = meanPresent(window, func(r domain.HourlyRecord) *float64 { return r.SeaTemp })
	out.WindGusts = meanPresent(window, func(r domain.HourlyRecord) *float64 { return r.WindGusts })
	out.FeelsLike = meanPresent(window, func(r domain.HourlyRecord) *float64 { return r.FeelsLike })
	out.WindDirDeg = circularMean(window)

	return out
}

func meanPresent(window []domain.HourlyRecord, get func(domain.HourlyRecord) *float64) *float64 {
	var sum float64
	var count int
	for _, rec := range window {
		if v := get(rec); v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}

func circularMean(window []domain.HourlyRecord) *float64 {
	var sinSum, cosSum float64
	var count int
	for _, rec := range window {
		if rec.WindDirDeg == nil {
			continue
		}
		rad := *rec.WindDirDeg * math.Pi / 180
		sinSum += math.Sin(rad)
		cosSum += math.Cos(rad)
		count++
	}
	if count == 0 {
		return nil
	}
	deg := math.Atan2(sinSum, cosSum) * 180 / math.Pi
	deg = math.Mod(deg+360, 360)
	return &deg
}
