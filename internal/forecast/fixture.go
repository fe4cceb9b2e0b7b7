package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandgroper/shorecast/internal/domain"
)

// Fixture is a raw capture of one provider round trip across all locations.
// Replaying it under a frozen clock reproduces a run byte for byte, which is
// how scoring changes are compared against a recorded baseline.
type Fixture struct {
	GeneratedAt time.Time         `json:"generated_at"`
	WaterTempC  *float64          `json:"water_temp_c,omitempty"`
	Locations   []LocationFixture `json:"locations"`
}

// LocationFixture pairs a location with its captured payloads.
type LocationFixture struct {
	Location domain.Location `json:"location"`
	Raw      RawLocationData `json:"raw"`
}

// ReadFixture loads a fixture file.
func ReadFixture(path string) (Fixture, error) {
	var fx Fixture
	data, err := os.ReadFile(path)
	if err != nil {
		return fx, fmt.Errorf("read fixture: %w", err)
	}
	if err := json.Unmarshal(data, &fx); err != nil {
		return fx, fmt.Errorf("parse fixture: %w", err)
	}
	return fx, nil
}

// WriteFixture writes a fixture file, creating parent directories.
func WriteFixture(path string, fx Fixture) error {
	data, err := json.MarshalIndent(fx, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Inputs converts the fixture's captures into run inputs, one per location.
func (fx Fixture) Inputs(horizonDays int) []Input {
	inputs := make([]Input, 0, len(fx.Locations))
	for _, lf := range fx.Locations {
		in := Input{Location: lf.Location, Daily: lf.Raw.Weather.Daily}
		recs, err := Normalize(lf.Raw, horizonDays)
		if err != nil {
			in.Err = Unavailable(lf.Location, err)
		} else {
			in.Records = recs
		}
		inputs = append(inputs, in)
	}
	return inputs
}
