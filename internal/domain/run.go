package domain

import "time"

// BestWindow is the recommended contiguous time window for a day.
type BestWindow struct {
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"` // exclusive
	Score     float64 `json:"score"`    // window-average snorkel score
}

// DailyForecast is the published per-(date, location) rating. Exactly one per
// location per forecast day.
type DailyForecast struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Location string `json:"location"`
	Area     string `json:"area,omitempty"`

	SnorkelScore *float64 `json:"snorkel_score,omitempty"`
	SnorkelLabel string   `json:"snorkel_label,omitempty"`
	BeachScore   *float64 `json:"beach_score,omitempty"`
	BeachLabel   string   `json:"beach_label,omitempty"`

	BestWindow *BestWindow `json:"best_window,omitempty"`

	// Representative conditions for rendering.
	WaveAvg  *float64 `json:"wave_avg,omitempty"` // effective metres
	WindAvg  *float64 `json:"wind_avg,omitempty"` // km/h
	TempAvg  *float64 `json:"temp_avg,omitempty"` // °C
	WaterC   *float64 `json:"water_temp_c,omitempty"`
	UVMax    *float64 `json:"uv_max,omitempty"`
	Sunrise  string   `json:"sunrise,omitempty"` // pass-through from the source
	Sunset   string   `json:"sunset,omitempty"`
	TideNote string   `json:"tide_note,omitempty"` // pass-through, not computed

	CrowdEstimate string `json:"crowd_estimate,omitempty"`

	// ReducedConfidence is set when marine data was missing for part of the
	// day and the snorkel score was computed from the remaining factors.
	ReducedConfidence bool `json:"reduced_confidence,omitempty"`
}

// TopPick is a best-of-run selection for one discipline.
type TopPick struct {
	Location string  `json:"location"`
	Date     string  `json:"date"`
	Score    float64 `json:"score"`
	Window   string  `json:"window,omitempty"`
	Why      string  `json:"why,omitempty"`
	Viable   bool    `json:"viable"`
}

// HiddenGem is a lower-crowd alternative within tolerance of the day's top
// rated location.
type HiddenGem struct {
	Location   string  `json:"location"`
	Date       string  `json:"date"`
	Score      float64 `json:"score"`
	Deficit    float64 `json:"deficit"` // top score minus gem score
	DistanceKm float64 `json:"distance_km"`
	Why        string  `json:"why,omitempty"`
}

// RunMeta records how a run was produced.
type RunMeta struct {
	GeneratedAt time.Time `json:"generated_at"`
	Mode        string    `json:"mode"`
	WindowHours int       `json:"window_hours"`
	// Failed lists locations dropped from the run (DataUnavailable).
	Failed []string `json:"failed,omitempty"`
	// StaleCache lists locations scored from cache data past the freshness
	// threshold, so rendering can flag them.
	StaleCache []string `json:"stale_cache,omitempty"`
}

// ForecastRun is the full output of one scoring invocation: every location,
// every day of the horizon, plus top picks and run metadata.
type ForecastRun struct {
	Meta RunMeta `json:"meta"`

	// Days is ordered by date; each day holds one DailyForecast per
	// successfully scored location.
	Days []ForecastDay `json:"days"`

	BestSnorkel *TopPick   `json:"best_snorkel,omitempty"`
	BestBeach   *TopPick   `json:"best_beach,omitempty"`
	HiddenGems  []HiddenGem `json:"hidden_gems,omitempty"`
}

// ForecastDay groups the per-location forecasts for one date.
type ForecastDay struct {
	Date      string          `json:"date"`
	Forecasts []DailyForecast `json:"forecasts"`
}
