package rating

// MorningWeight weights a daily aggregation toward the morning. The Fremantle
// Doctor sea breeze reliably builds through the early afternoon, so an
// afternoon hour says less about whether the day was worth going than a
// mid-morning one.
func MorningWeight(hour int) float64 {
	switch {
	case hour <= 7:
		return 1.1
	case hour <= 9:
		return 1.25
	case hour <= 12:
		return 1.4
	case hour <= 13:
		return 0.9
	default:
		return 0.7
	}
}

// WeightedMean computes a morning-weighted mean of per-hour values. Returns
// false when no values are present.
func WeightedMean(hours []int, values []float64) (float64, bool) {
	if len(hours) != len(values) || len(values) == 0 {
		return 0, false
	}
	var total, weightTotal float64
	for i, v := range values {
		w := MorningWeight(hours[i])
		total += v * w
		weightTotal += w
	}
	if weightTotal == 0 {
		return 0, false
	}
	return total / weightTotal, true
}

// Mean is the unweighted average used by compat-mode daily aggregation.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values)), true
}
