// Package compass implements the direction geometry behind shelter and
// onshore/offshore wind classification.
//
// Directions follow the meteorological convention: a wind direction is the
// bearing the wind blows FROM, in degrees clockwise from north. A location's
// shore normal is the bearing pointing out to sea, so wind arriving from near
// the shore normal is onshore and wind from the opposite bearing is offshore.
package compass

import "math"

// Points lists the sixteen compass points in clockwise order from north.
// Point i sits at i*22.5 degrees.
var Points = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

var pointToDeg = func() map[string]float64 {
	m := make(map[string]float64, len(Points))
	for i, p := range Points {
		m[p] = float64(i) * 22.5
	}
	return m
}()

// FromDegrees converts a bearing to the nearest compass point.
func FromDegrees(deg float64) string {
	idx := int(math.Mod(math.Mod(deg, 360)+360+11.25, 360) / 22.5)
	return Points[idx%16]
}

// ToDegrees converts a compass point to its bearing. The second return is
// false for unrecognized points.
func ToDegrees(point string) (float64, bool) {
	deg, ok := pointToDeg[point]
	return deg, ok
}

// AngularDiff returns the smallest angle between two bearings, in [0, 180].
func AngularDiff(a, b float64) float64 {
	diff := math.Abs(math.Mod(a-b, 360))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// Shelter weight geometry: full protection within fullDeg of a sheltering
// direction, fading linearly to none at fadeDeg. The fade replaces the old
// binary tolerance test so that a wind a few degrees past the tolerance no
// longer flips the whole shelter discount off.
const (
	FullShelterDeg = 15
	FadeShelterDeg = 60

	// LegacyShelterToleranceDeg is the binary cutoff used by compat scoring.
	LegacyShelterToleranceDeg = 30
)

// ShelterWeight returns the continuous [0,1] protection weight a set of
// sheltering directions provides against a wind from dirDeg. A nil direction
// (unknown wind) yields zero weight. The weight over multiple shelter
// directions is the best single one, not a sum.
func ShelterWeight(shelterFrom []string, dirDeg *float64) float64 {
	if dirDeg == nil || len(shelterFrom) == 0 {
		return 0
	}

	weight := 0.0
	for _, point := range shelterFrom {
		shelterDeg, ok := ToDegrees(point)
		if !ok {
			continue
		}
		diff := AngularDiff(*dirDeg, shelterDeg)
		w := 0.0
		switch {
		case diff <= FullShelterDeg:
			w = 1.0
		case diff < FadeShelterDeg:
			w = 1.0 - (diff-FullShelterDeg)/(FadeShelterDeg-FullShelterDeg)
		}
		weight = math.Max(weight, w)
	}
	return weight
}

// IsShelteredFrom is the legacy binary shelter test: true when the direction
// falls within LegacyShelterToleranceDeg of any sheltering direction.
func IsShelteredFrom(shelterFrom []string, dirDeg *float64) bool {
	if dirDeg == nil || len(shelterFrom) == 0 {
		return false
	}
	for _, point := range shelterFrom {
		shelterDeg, ok := ToDegrees(point)
		if !ok {
			continue
		}
		if AngularDiff(*dirDeg, shelterDeg) <= LegacyShelterToleranceDeg {
			return true
		}
	}
	return false
}

// WindClass is the relation of a wind to a location's shoreline.
type WindClass int

const (
	// CrossShore is the neutral classification, also used for unknown winds.
	CrossShore WindClass = iota
	Onshore
	Offshore
)

func (c WindClass) String() string {
	switch c {
	case Onshore:
		return "onshore"
	case Offshore:
		return "offshore"
	default:
		return "cross-shore"
	}
}

// classifyToleranceDeg is the half-angle of the onshore and offshore sectors
// around the shore normal and its opposite.
const classifyToleranceDeg = 65

// ClassifyWind classifies a wind direction against a shore normal (the
// bearing out to sea). Wind from near the shore normal blows onto the land
// and is onshore; wind from near the opposite bearing is offshore. A nil wind
// direction classifies as cross-shore rather than failing.
func ClassifyWind(windDirDeg *float64, shoreNormalDeg float64) WindClass {
	if windDirDeg == nil {
		return CrossShore
	}

	if AngularDiff(*windDirDeg, shoreNormalDeg) <= classifyToleranceDeg {
		return Onshore
	}
	offshoreDir := math.Mod(shoreNormalDeg+180, 360)
	if AngularDiff(*windDirDeg, offshoreDir) <= classifyToleranceDeg {
		return Offshore
	}
	return CrossShore
}

// IsOffshoreLegacy is the compat-mode offshore test: any wind out of the
// E/NE/SE quadrant counts as offshore regardless of shoreline orientation.
// Kept for regression parity with historical baselines.
func IsOffshoreLegacy(windDirDeg *float64) bool {
	if windDirDeg == nil {
		return false
	}
	return *windDirDeg >= 45 && *windDirDeg <= 135
}
