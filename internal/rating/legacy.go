package rating

import (
	"github.com/sandgroper/shorecast/internal/compass"
	"github.com/sandgroper/shorecast/internal/domain"
)

// legacyRater reproduces the pre-graduated formula exactly: stepped bucket
// deductions, a binary shelter test, the fixed E/NE/SE offshore quadrant, and
// legacy defaults for missing values. Historical baselines were produced with
// these constants. Do not retune them, add calibration changes to the
// graduated model instead.
type legacyRater struct{}

func (legacyRater) Mode() Mode { return ModeV5 }

func (legacyRater) Snorkel(rec domain.HourlyRecord, loc domain.Location) Breakdown {
	var deductions []Deduction

	// The legacy formula scored missing marine readings as zero.
	effWave := orDefault(rec.WaveHeight, 0)
	sheltered := compass.IsShelteredFrom(loc.ShelterFrom, rec.WindDirDeg)
	if sheltered {
		effWave *= 1 - loc.ShelterFactor*0.7
	}
	effWave = round2(effWave)

	var wavePts float64
	switch {
	case effWave < 0.2:
		wavePts = 0
	case effWave < 0.35:
		wavePts = 0.5
	case effWave < 0.5:
		wavePts = 1.0
	case effWave < 0.7:
		wavePts = 2.0
	case effWave < 1.0:
		wavePts = 3.0
	default:
		wavePts = 4.0
	}
	deductions = deduct(deductions, "waves", wavePts)

	wind := rec.WindSpeed
	offshore := compass.IsOffshoreLegacy(rec.WindDirDeg)

	var windPts float64
	switch {
	case wind < 8:
		windPts = 0
	case wind < 12:
		windPts = 0.3
	case wind < 18:
		windPts = pick(offshore, 0.8, 1.5)
	case wind < 25:
		windPts = pick(offshore, 1.5, 2.5)
	default:
		windPts = pick(offshore, 2.5, 3.0)
	}
	deductions = deduct(deductions, "wind", windPts)

	period := orDefault(rec.WavePeriod, 8)
	switch {
	case period >= 10:
	case period >= 8:
		deductions = deduct(deductions, "swell period", 0.3)
	case period >= 6:
		deductions = deduct(deductions, "swell period", 0.6)
	default:
		deductions = deduct(deductions, "swell period", 1.0)
	}

	sea := orDefault(rec.SeaTemp, 24)
	switch {
	case sea >= 23 && sea <= 27:
	case sea >= 21 && sea <= 29:
		deductions = deduct(deductions, "sea temperature", 0.5)
	default:
		deductions = deduct(deductions, "sea temperature", 1.0)
	}

	air := rec.AirTemp
	switch {
	case air >= 25 && air <= 32:
	case air >= 22 && air <= 35:
		deductions = deduct(deductions, "air temperature", 0.3)
	case air >= 20 && air <= 38:
		deductions = deduct(deductions, "air temperature", 0.6)
	default:
		deductions = deduct(deductions, "air temperature", 1.0)
	}

	return Breakdown{
		Score:      finishScore(deductions),
		Deductions: deductions,
		Mode:       ModeV5,
		Effective: domain.EffectiveConditions{
			WaveHeight:  effWave,
			WaveMissing: rec.WaveHeight == nil,
			WindSpeed:   wind,
			Offshore:    offshore,
		},
	}
}

func (legacyRater) Beach(rec domain.HourlyRecord, _ domain.Location) Breakdown {
	var deductions []Deduction

	wind := rec.WindSpeed
	gust := orDefault(rec.WindGusts, wind)

	var windPts float64
	switch {
	case wind < 10:
		windPts = 0
	case wind < 15:
		windPts = 0.5
	case wind < 20:
		windPts = 1.5
	case wind < 28:
		windPts = 2.5
	default:
		windPts = 4.0
	}
	if gust > wind*1.8 {
		windPts += 0.5
	}
	deductions = deduct(deductions, "wind", windPts)

	feels := orDefault(rec.FeelsLike, rec.AirTemp)
	switch {
	case feels >= 26 && feels <= 32:
	case feels >= 24 && feels <= 34:
		deductions = deduct(deductions, "feels-like", 0.5)
	case feels >= 22 && feels <= 36:
		deductions = deduct(deductions, "feels-like", 1.5)
	case feels >= 20 && feels <= 38:
		deductions = deduct(deductions, "feels-like", 2.5)
	default:
		deductions = deduct(deductions, "feels-like", 3.0)
	}

	uv := rec.UVIndex
	switch {
	case uv <= 6:
	case uv <= 8:
		deductions = deduct(deductions, "uv", 0.3)
	case uv <= 10:
		deductions = deduct(deductions, "uv", 0.7)
	default:
		deductions = deduct(deductions, "uv", 1.5)
	}

	// The legacy cloud buckets penalize fully clear skies too (< 10% falls
	// into the 0.5 bucket). Preserved for baseline parity.
	cloud := rec.CloudCover
	switch {
	case cloud >= 10 && cloud <= 40:
	case cloud <= 60:
		deductions = deduct(deductions, "cloud cover", 0.5)
	case cloud <= 80:
		deductions = deduct(deductions, "cloud cover", 1.0)
	default:
		deductions = deduct(deductions, "cloud cover", 1.5)
	}

	return Breakdown{
		Score:      finishScore(deductions),
		Deductions: deductions,
		Mode:       ModeV5,
		Effective: domain.EffectiveConditions{
			WindSpeed:   wind,
			WaveMissing: rec.WaveHeight == nil,
		},
	}
}

func pick(cond bool, ifTrue, ifFalse float64) float64 {
	if cond {
		return ifTrue
	}
	return ifFalse
}
