package rating

import (
	"fmt"
	"math"

	"github.com/sandgroper/shorecast/internal/domain"
)

// Mode selects the scoring formula at runtime.
type Mode string

const (
	// ModeV6 is the current graduated model.
	ModeV6 Mode = "v6"
	// ModeV5 is the frozen legacy model, selectable for regression
	// comparison against historical baselines.
	ModeV5 Mode = "v5"
)

// ParseMode maps a configuration string to a Mode. "compat" is accepted as
// an alias for the legacy mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "v6":
		return ModeV6, nil
	case "v5", "compat":
		return ModeV5, nil
	default:
		return "", fmt.Errorf("unknown rating mode %q", s)
	}
}

// Deduction is one scored factor and the points it removed.
type Deduction struct {
	Factor string  `json:"factor"`
	Points float64 `json:"points"`
}

// Breakdown is the result of rating one hour (or one window-averaged hour)
// at one location. Immutable once returned.
type Breakdown struct {
	Score      float64     `json:"score"` // 0-10, one decimal
	Deductions []Deduction `json:"deductions,omitempty"`
	Mode       Mode        `json:"mode"`

	// Effective carries the shelter-adjusted inputs the score came from.
	Effective domain.EffectiveConditions `json:"-"`

	// ReducedConfidence is set when marine data was missing and the score
	// was computed from the remaining factors only.
	ReducedConfidence bool `json:"reduced_confidence,omitempty"`
}

// Rater scores a single hour. Implementations are pure: identical inputs
// always produce an identical Breakdown, and raters hold no mutable state.
type Rater interface {
	Mode() Mode
	// Snorkel rates water conditions for snorkelling.
	Snorkel(rec domain.HourlyRecord, loc domain.Location) Breakdown
	// Beach rates on-sand comfort for sunbathing.
	Beach(rec domain.HourlyRecord, loc domain.Location) Breakdown
}

// New returns the rater for a mode. The calibration only applies to the
// graduated model; the legacy model's constants are frozen.
func New(mode Mode, cal Calibration) Rater {
	if mode == ModeV5 {
		return legacyRater{}
	}
	return graduatedRater{cal: cal}
}

// Label converts a score to the banded text label used by rendering and
// notification collaborators.
func Label(score float64) string {
	switch {
	case score >= 9:
		return "Perfect"
	case score >= 7.5:
		return "Great"
	case score >= 6:
		return "Good"
	case score >= 4.5:
		return "OK"
	case score >= 3:
		return "Poor"
	default:
		return "Bad"
	}
}

// ViableThreshold is the minimum score for a top pick to be recommended.
const ViableThreshold = 4.5

func deduct(deductions []Deduction, factor string, points float64) []Deduction {
	if points <= 0 {
		return deductions
	}
	return append(deductions, Deduction{Factor: factor, Points: points})
}

// finishScore clamps the deducted score into [0, 10] at one-decimal
// precision.
func finishScore(deductions []Deduction) float64 {
	score := 10.0
	for _, d := range deductions {
		score -= d.Points
	}
	return round1(clamp(score, 0, 10))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
