// Package rating scores hourly beach conditions. Two strategies implement
// the same interface: the current graduated model and a frozen legacy model
// kept for regression comparison against historical baselines.
package rating

// Anchor is one point on a deduction curve: at input X the curve deducts
// Points.
type Anchor struct {
	X      float64
	Points float64
}

// Curve is a monotonic piecewise-linear deduction curve. Inputs below the
// first anchor deduct nothing; inputs past the last anchor deduct the last
// anchor's points. Anchors must be sorted by X.
type Curve []Anchor

// Eval returns the deduction for x.
func (c Curve) Eval(x float64) float64 {
	if len(c) == 0 || x < c[0].X {
		return 0
	}
	last := c[len(c)-1]
	if x >= last.X {
		return last.Points
	}
	for i := 1; i < len(c); i++ {
		if x < c[i].X {
			lo, hi := c[i-1], c[i]
			frac := (x - lo.X) / (hi.X - lo.X)
			return lo.Points + frac*(hi.Points-lo.Points)
		}
	}
	return last.Points
}

// Band is a comfort band with a deduction curve over the distance from the
// nearest band edge. Values inside [Lo, Hi] deduct nothing.
type Band struct {
	Lo, Hi  float64
	Penalty Curve
}

// Eval returns the deduction for value v.
func (b Band) Eval(v float64) float64 {
	switch {
	case v < b.Lo:
		return b.Penalty.Eval(b.Lo - v)
	case v > b.Hi:
		return b.Penalty.Eval(v - b.Hi)
	default:
		return 0
	}
}

// Calibration is the full deduction model for the graduated rater. Declared
// as data so recalibrating against field observations is a table change, not
// a logic change.
type Calibration struct {
	// Snorkel factors.
	SnorkelWave      Curve   // effective wave height, metres
	SnorkelWind      Curve   // effective sustained wind, km/h, cross-shore baseline
	OnshoreWindMult  float64 // multiplier when the wind is onshore
	OffshoreWindMult float64
	SnorkelWindCap   float64 // ceiling after the directional multiplier
	PeriodFloor      float64 // seconds; shorter swell chops up visibility
	PeriodShortfall  Curve   // over (PeriodFloor - period)
	SeaTemp          Band
	AirTemp          Band

	// Beach factors.
	BeachWind   Curve
	GustRatio   float64 // gusts beyond this multiple of sustained wind
	GustPenalty float64
	FeelsLike   Band
	UV          Curve
	CloudCover  Curve

	// Shelter discounts: how much of the shelter weight carries through to
	// the wave and wind inputs.
	ShelterWaveDiscount float64
	ShelterWindDiscount float64
}

// DefaultCalibration returns the deduction table calibrated from field notes
// (Mettams Pool 2026-02-02: 0.44-0.50 m waves, 9-15 km/h wind, rated 8/10;
// Watermans Bay field visit rated 8/10).
func DefaultCalibration() Calibration {
	return Calibration{
		SnorkelWave: Curve{{X: 0.15, Points: 0}, {X: 0.5, Points: 1.0}, {X: 1.0, Points: 4.0}},

		SnorkelWind:      Curve{{X: 8, Points: 0}, {X: 15, Points: 0.3}, {X: 30, Points: 2.0}},
		OnshoreWindMult:  1.5,
		OffshoreWindMult: 0.6,
		SnorkelWindCap:   3.0,

		PeriodFloor:     8,
		PeriodShortfall: Curve{{X: 0, Points: 0}, {X: 2, Points: 1.0}},

		// Band edges keep a small onset penalty: just outside the comfort
		// band is already noticeably worse than inside it.
		SeaTemp: Band{Lo: 23, Hi: 27, Penalty: Curve{{X: 0, Points: 0.5}, {X: 4, Points: 1.0}}},
		AirTemp: Band{Lo: 25, Hi: 32, Penalty: Curve{{X: 0, Points: 0.3}, {X: 6, Points: 1.0}}},

		BeachWind:   Curve{{X: 5, Points: 0}, {X: 10, Points: 0.5}, {X: 30, Points: 4.0}},
		GustRatio:   1.8,
		GustPenalty: 0.5,
		FeelsLike:   Band{Lo: 26, Hi: 32, Penalty: Curve{{X: 0, Points: 0.5}, {X: 6, Points: 3.0}}},
		UV:          Curve{{X: 6, Points: 0}, {X: 8, Points: 0.3}, {X: 12, Points: 1.5}},
		CloudCover:  Curve{{X: 40, Points: 0}, {X: 60, Points: 0.5}, {X: 100, Points: 1.5}},

		ShelterWaveDiscount: 0.7,
		ShelterWindDiscount: 0.4,
	}
}
