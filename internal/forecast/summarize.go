package forecast

import (
	"math"
	"time"

	"github.com/sandgroper/shorecast/internal/domain"
	"github.com/sandgroper/shorecast/internal/rating"
)

// SummarizeDay collapses one day's hourly records for one location into its
// DailyForecast. Records must already be filtered to the day and the daylight
// rating hours.
func SummarizeDay(date string, recs []domain.HourlyRecord, loc domain.Location, r rating.Rater, windowHours int) domain.DailyForecast {
	out := domain.DailyForecast{
		Date:     date,
		Location: loc.Name,
		Area:     loc.Area,
	}
	if len(recs) == 0 {
		return out
	}

	hours := make([]int, 0, len(recs))
	snorkelScores := make([]float64, 0, len(recs))
	beachScores := make([]float64, 0, len(recs))
	waves := make([]float64, 0, len(recs))
	waveHours := make([]int, 0, len(recs))

	var windSum, tempSum float64
	reduced := false

	for _, rec := range recs {
		hours = append(hours, rec.Hour())
		windSum += rec.WindSpeed
		tempSum += rec.AirTemp

		if loc.Category.Snorkelable() {
			bd := r.Snorkel(rec, loc)
			snorkelScores = append(snorkelScores, bd.Score)
			reduced = reduced || bd.ReducedConfidence
			if !bd.Effective.WaveMissing {
				waves = append(waves, bd.Effective.WaveHeight)
				waveHours = append(waveHours, rec.Hour())
			}
		}
		if loc.Category.Beachable() {
			bd := r.Beach(rec, loc)
			beachScores = append(beachScores, bd.Score)
		}
	}

	compat := r.Mode() == rating.ModeV5
	if loc.Category.Snorkelable() {
		if score, ok := dailyScore(hours, snorkelScores, compat); ok {
			s := round1(score)
			out.SnorkelScore = &s
			out.SnorkelLabel = rating.Label(s)
		}
		if len(waves) > 0 {
			w, _ := dailyScore(waveHours, waves, compat)
			wr := round2(w)
			out.WaveAvg = &wr
		}
		out.BestWindow = bestWindowFor(recs, loc, r, windowHours, snorkelScores, compat)
		out.ReducedConfidence = reduced
	}
	if loc.Category.Beachable() {
		if score, ok := dailyScore(hours, beachScores, compat); ok {
			s := round1(score)
			out.BeachScore = &s
			out.BeachLabel = rating.Label(s)
		}
	}

	wind := round1(windSum / float64(len(recs)))
	temp := round1(tempSum / float64(len(recs)))
	out.WindAvg = &wind
	out.TempAvg = &temp

	out.CrowdEstimate = CrowdEstimate(loc, date, recs)
	return out
}

// dailyScore is morning-weighted in the graduated mode and a straight mean in
// compat mode.
func dailyScore(hours []int, values []float64, compat bool) (float64, bool) {
	if compat {
		return rating.Mean(values)
	}
	return rating.WeightedMean(hours, values)
}

// bestWindowFor picks the day's recommended window. The graduated mode uses
// the rolling-window aggregator; compat mode reproduces the legacy heuristic
// of extending from the first hour until the score drops more than a point
// below the day average.
func bestWindowFor(recs []domain.HourlyRecord, loc domain.Location, r rating.Rater, windowHours int, snorkelScores []float64, compat bool) *domain.BestWindow {
	if !compat {
		win, ok := rating.BestWindow(recs, loc, r, windowHours)
		if !ok {
			return nil
		}
		return &win
	}

	avg, ok := rating.Mean(snorkelScores)
	if !ok {
		return nil
	}
	start := recs[0].Hour()
	end := start + 3
	for i, rec := range recs {
		if snorkelScores[i] < avg-1 {
			end = rec.Hour()
			break
		}
		end = rec.Hour() + 1
	}
	const legacyMaxEnd = 14
	if end > legacyMaxEnd {
		end = legacyMaxEnd
	}
	return &domain.BestWindow{StartHour: start, EndHour: end, Score: round1(avg)}
}

// CrowdEstimate predicts busyness from the location's base crowd factor and
// day/condition multipliers: weekends and school-holiday months push crowds
// up, marginal conditions thin them out.
func CrowdEstimate(loc domain.Location, date string, recs []domain.HourlyRecord) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}

	factor := loc.CrowdFactor
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		factor *= 1.5
	}
	switch day.Month() {
	case time.January, time.April, time.July, time.October, time.December:
		factor *= 1.3
	}

	var wave, wind, temp float64
	var waveN int
	for _, rec := range recs {
		if rec.WaveHeight != nil {
			wave += *rec.WaveHeight
			waveN++
		}
		wind += rec.WindSpeed
		temp += rec.AirTemp
	}
	if len(recs) > 0 {
		wind /= float64(len(recs))
		temp /= float64(len(recs))
	}
	if waveN > 0 {
		wave /= float64(waveN)
	} else {
		wave = 0.5
	}

	switch {
	case wave < 0.3 && wind < 12 && temp > 28:
		factor *= 1.4
	case wave > 0.6 || wind > 20 || temp < 22:
		factor *= 0.6
	}

	switch {
	case factor > 0.9:
		return "Packed"
	case factor > 0.7:
		return "Busy"
	case factor > 0.4:
		return "Moderate"
	default:
		return "Quiet"
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
