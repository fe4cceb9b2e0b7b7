// Package domain models the beach forecast data: reference locations, the
// canonical hourly weather record, and the daily rating output.
//
// # Units and conventions
//
// Wave heights are metres, wind speeds km/h, temperatures °C, UV the
// dimensionless UV index, cloud cover and precipitation probability percent.
// Wind and swell directions are bearings the wind/swell comes FROM, degrees
// clockwise from north. A location's shore normal is the bearing pointing out
// to sea (Perth metro beaches face west, shore normal 270).
//
// # Missing values
//
// Marine fields are pointers: a nil wave height means the marine model had no
// reading for that hour, which is not the same as flat water. Downstream
// scoring must treat absence explicitly: a missing wave height degrades
// rating confidence instead of scoring as zero waves.
//
// # Determinism
//
// ForecastRun generation timestamps come from the package clock (see
// [SetClock]); scoring itself never reads the clock, so a recorded raw
// snapshot reproduces an identical run.
package domain
