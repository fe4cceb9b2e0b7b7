package rating

import (
	"github.com/sandgroper/shorecast/internal/compass"
	"github.com/sandgroper/shorecast/internal/domain"
)

// graduatedRater is the current model: continuous piecewise-linear deductions
// from the calibration table, directional shelter weighting, and an onshore
// wind multiplier derived from the shoreline orientation.
type graduatedRater struct {
	cal Calibration
}

func (r graduatedRater) Mode() Mode { return ModeV6 }

func (r graduatedRater) Snorkel(rec domain.HourlyRecord, loc domain.Location) Breakdown {
	cal := r.cal

	weight := compass.ShelterWeight(loc.ShelterFrom, rec.WindDirDeg)
	class := compass.ClassifyWind(rec.WindDirDeg, loc.ShoreNormalDeg)

	eff := domain.EffectiveConditions{
		ShelterWeight: weight,
		Onshore:       class == compass.Onshore,
		Offshore:      class == compass.Offshore,
	}

	var deductions []Deduction
	reduced := false

	// Waves. A missing reading is not flat water: skip the factor and flag
	// reduced confidence instead of rewarding a false zero.
	if rec.WaveHeight == nil {
		eff.WaveMissing = true
		reduced = true
	} else {
		raw := clamp(*rec.WaveHeight, 0, 30)
		eff.WaveHeight = round2(raw * (1 - loc.ShelterFactor*cal.ShelterWaveDiscount*weight))
		deductions = deduct(deductions, "waves", cal.SnorkelWave.Eval(eff.WaveHeight))
	}

	// Wind, discounted by shelter and scaled by its relation to the shore.
	eff.WindSpeed = clamp(rec.WindSpeed, 0, 200) * (1 - loc.ShelterFactor*cal.ShelterWindDiscount*weight)
	windPts := cal.SnorkelWind.Eval(eff.WindSpeed)
	switch class {
	case compass.Onshore:
		windPts *= cal.OnshoreWindMult
	case compass.Offshore:
		windPts *= cal.OffshoreWindMult
	}
	deductions = deduct(deductions, "wind", clamp(windPts, 0, cal.SnorkelWindCap))

	// Short-period swell chops up the surface and visibility.
	if rec.WavePeriod == nil {
		reduced = true
	} else if shortfall := cal.PeriodFloor - *rec.WavePeriod; shortfall > 0 {
		deductions = deduct(deductions, "swell period", cal.PeriodShortfall.Eval(shortfall))
	}

	if rec.SeaTemp != nil {
		deductions = deduct(deductions, "sea temperature", cal.SeaTemp.Eval(*rec.SeaTemp))
	}
	deductions = deduct(deductions, "air temperature", cal.AirTemp.Eval(rec.AirTemp))

	return Breakdown{
		Score:             finishScore(deductions),
		Deductions:        deductions,
		Mode:              ModeV6,
		Effective:         eff,
		ReducedConfidence: reduced,
	}
}

func (r graduatedRater) Beach(rec domain.HourlyRecord, loc domain.Location) Breakdown {
	cal := r.cal

	weight := compass.ShelterWeight(loc.ShelterFrom, rec.WindDirDeg)
	wind := clamp(rec.WindSpeed, 0, 200) * (1 - loc.ShelterFactor*cal.ShelterWindDiscount*weight)

	var deductions []Deduction
	deductions = deduct(deductions, "wind", cal.BeachWind.Eval(wind))
	if rec.WindGusts != nil && *rec.WindGusts > rec.WindSpeed*cal.GustRatio {
		deductions = deduct(deductions, "gusts", cal.GustPenalty)
	}

	feels := orDefault(rec.FeelsLike, rec.AirTemp)
	deductions = deduct(deductions, "feels-like", cal.FeelsLike.Eval(feels))
	deductions = deduct(deductions, "uv", cal.UV.Eval(clamp(rec.UVIndex, 0, 20)))
	deductions = deduct(deductions, "cloud cover", cal.CloudCover.Eval(clamp(rec.CloudCover, 0, 100)))

	return Breakdown{
		Score:      finishScore(deductions),
		Deductions: deductions,
		Mode:       ModeV6,
		Effective: domain.EffectiveConditions{
			ShelterWeight: weight,
			WindSpeed:     wind,
			WaveMissing:   rec.WaveHeight == nil,
		},
	}
}
