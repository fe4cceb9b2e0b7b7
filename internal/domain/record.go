package domain

import "time"

// HourlyRecord is the canonical per-hour forecast record produced by the
// normalizer. Pointer fields are nullable: the marine model covers fewer
// points than the atmospheric one, so wave readings can be absent for hours
// that still have wind and temperature.
type HourlyRecord struct {
	Time time.Time `json:"time"`

	// Marine fields (nullable).
	WaveHeight *float64 `json:"wave_height,omitempty"`  // metres
	WavePeriod *float64 `json:"wave_period,omitempty"`  // seconds (dominant swell)
	SeaTemp    *float64 `json:"sea_temp,omitempty"`     // °C
	WindDirDeg *float64 `json:"wind_dir_deg,omitempty"` // bearing wind comes from

	// Atmospheric fields.
	WindSpeed  float64  `json:"wind_speed"` // km/h sustained
	WindGusts  *float64 `json:"wind_gusts,omitempty"`
	AirTemp    float64  `json:"air_temp"` // °C
	FeelsLike  *float64 `json:"feels_like,omitempty"`
	UVIndex    float64  `json:"uv_index"`
	CloudCover float64  `json:"cloud_cover"` // percent
	PrecipProb float64  `json:"precip_prob"` // percent
}

// Hour is the local hour of day for the record.
func (r HourlyRecord) Hour() int {
	return r.Time.Hour()
}

// Date is the local calendar date for the record, formatted YYYY-MM-DD.
func (r HourlyRecord) Date() string {
	return r.Time.Format("2006-01-02")
}

// EffectiveConditions are the shelter-adjusted values a rating is computed
// from. Derived per hour, never stored.
type EffectiveConditions struct {
	// WaveHeight is the raw height discounted by the shelter weight.
	// Meaningless when WaveMissing is set.
	WaveHeight  float64
	WaveMissing bool

	// WindSpeed is the shelter-discounted sustained wind.
	WindSpeed float64

	// ShelterWeight is the [0,1] directional protection applied.
	ShelterWeight float64

	// Offshore and Onshore record the wind classification used.
	Offshore bool
	Onshore  bool
}
