// Package forecast turns raw per-location weather payloads into scored
// forecast runs: normalization onto an hourly grid, daily summarization, and
// run assembly with top picks and hidden gems.
package forecast

// RawLocationData is the opaque payload the fetch collaborator hands over
// for one location: the marine and atmospheric responses side by side. The
// field layout mirrors the Open-Meteo hourly/daily schema, where every
// series is a parallel array indexed by the time array and missing readings
// are JSON nulls.
type RawLocationData struct {
	Marine  MarinePayload  `json:"marine"`
	Weather WeatherPayload `json:"weather"`
}

// MarinePayload is the marine model response.
type MarinePayload struct {
	Hourly MarineHourly `json:"hourly"`
}

// MarineHourly holds the hourly marine series.
type MarineHourly struct {
	Time                  []string   `json:"time"`
	WaveHeight            []*float64 `json:"wave_height"`
	SwellWavePeriod       []*float64 `json:"swell_wave_period"`
	SeaSurfaceTemperature []*float64 `json:"sea_surface_temperature"`
}

// WeatherPayload is the atmospheric model response.
type WeatherPayload struct {
	Hourly WeatherHourly `json:"hourly"`
	Daily  WeatherDaily  `json:"daily"`
}

// WeatherHourly holds the hourly atmospheric series.
type WeatherHourly struct {
	Time                     []string   `json:"time"`
	Temperature2m            []*float64 `json:"temperature_2m"`
	ApparentTemperature      []*float64 `json:"apparent_temperature"`
	WindSpeed10m             []*float64 `json:"wind_speed_10m"`
	WindDirection10m         []*float64 `json:"wind_direction_10m"`
	WindGusts10m             []*float64 `json:"wind_gusts_10m"`
	CloudCover               []*float64 `json:"cloud_cover"`
	UVIndex                  []*float64 `json:"uv_index"`
	PrecipitationProbability []*float64 `json:"precipitation_probability"`
}

// WeatherDaily holds the daily pass-through series (sunrise, sunset, UV max).
type WeatherDaily struct {
	Time       []string   `json:"time"`
	Sunrise    []string   `json:"sunrise"`
	Sunset     []string   `json:"sunset"`
	UVIndexMax []*float64 `json:"uv_index_max"`
}

func at[T any](seq []T, i int) T {
	var zero T
	if i < 0 || i >= len(seq) {
		return zero
	}
	return seq[i]
}
