// Package locations holds the beach reference data: the built-in Perth metro
// table and an optional JSON override file. Loaded once at startup and
// validated; a partial definition aborts the run.
package locations

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sandgroper/shorecast/internal/domain"
)

// Perth metro beaches generally face west.
const defaultShoreNormalDeg = 270

// Defaults is the built-in location table. shelter_from lists the swell/wind
// directions each spot is protected from (reef, headland, groyne or
// breakwater), shelter_factor how complete that protection is.
var Defaults = []domain.Location{
	{
		Name: "Mettams Pool", Area: "Trigg",
		Lat: -31.8195, Lon: 115.7517,
		Category:       domain.CategorySnorkel,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW", "NW"},
		ShelterFactor:  0.8,
		CrowdFactor:    0.8,
		Parking:        "limited",
		Facilities:     []string{"toilets", "showers"},
		Notes:          "Reef-enclosed lagoon, shallow, beginners welcome.",
	},
	{
		Name: "Hamersley Pool", Area: "Trigg",
		Lat: -31.8150, Lon: 115.7510,
		Category:       domain.CategorySnorkel,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW", "NW"},
		ShelterFactor:  0.8,
		CrowdFactor:    0.5,
		Parking:        "limited",
		Facilities:     []string{"toilets"},
		Notes:          "600m north of Mettams, same conditions, fewer crowds.",
	},
	{
		Name: "Watermans Bay", Area: "Watermans",
		Lat: -31.8456, Lon: 115.7537,
		Category:       domain.CategorySnorkel,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW"},
		ShelterFactor:  0.6,
		CrowdFactor:    0.4,
		Parking:        "good",
		Facilities:     []string{"toilets"},
		Notes:          "Partial reef shelter, quieter, good for families.",
	},
	{
		Name: "Boyinaboat Reef", Area: "Hillarys",
		Lat: -31.8234, Lon: 115.7389,
		Category:       domain.CategorySnorkel,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW", "NW", "N"},
		ShelterFactor:  0.7,
		CrowdFactor:    0.5,
		Parking:        "good",
		Facilities:     []string{"toilets"},
		Notes:          "Underwater trail with plaques, 6m deep, marina shelter.",
	},
	{
		Name: "Omeo Wreck", Area: "Coogee",
		Lat: -32.1056, Lon: 115.7631,
		Category:       domain.CategorySnorkel,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW"},
		ShelterFactor:  0.5,
		CrowdFactor:    0.5,
		Parking:        "good",
		Facilities:     []string{"toilets", "showers"},
		Notes:          "Maritime trail shipwreck 25m from shore, 2.5-5m deep.",
	},
	{
		Name: "Point Peron", Area: "Rockingham",
		Lat: -32.2722, Lon: 115.6917,
		Category:       domain.CategorySnorkel,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW", "NW"},
		ShelterFactor:  0.6,
		CrowdFactor:    0.4,
		Parking:        "good",
		Facilities:     []string{"toilets"},
		Notes:          "Garden Island blocks swell. Caves, overhangs, sea life.",
	},
	{
		Name: "Yanchep Lagoon", Area: "Yanchep",
		Lat: -31.5469, Lon: 115.6350,
		Category:       domain.CategorySnorkel,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW", "NW"},
		ShelterFactor:  0.7,
		CrowdFactor:    0.3,
		Parking:        "good",
		Facilities:     []string{"toilets", "cafe"},
		Notes:          "Protected lagoon, clear water, visibility 10-30m.",
	},
	{
		Name: "North Cottesloe", Area: "Cottesloe",
		Lat: -31.9856, Lon: 115.7517,
		Category:       domain.CategoryBoth,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"E", "NE", "SE"},
		ShelterFactor:  0.3,
		CrowdFactor:    0.6,
		Parking:        "moderate",
		Facilities:     []string{"toilets", "cafe"},
		Notes:          "Peters Pool reef snorkelling, exposed to SW swell.",
	},
	{
		Name: "Cottesloe Beach", Area: "Cottesloe",
		Lat: -31.9939, Lon: 115.7522,
		Category:       domain.CategoryBoth,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"E", "NE"},
		ShelterFactor:  0.3,
		CrowdFactor:    0.9,
		Parking:        "difficult",
		Facilities:     []string{"toilets", "showers", "cafes", "pubs"},
		Notes:          "Iconic, patrolled, busy weekends, great sunset.",
	},
	{
		Name: "Swanbourne Beach", Area: "Swanbourne",
		Lat: -31.9672, Lon: 115.7583,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFactor:  0.2,
		CrowdFactor:    0.3,
		Parking:        "good",
		Facilities:     []string{"toilets"},
		Notes:          "Quiet, less crowded.",
	},
	{
		Name: "City Beach", Area: "City Beach",
		Lat: -31.9389, Lon: 115.7583,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"E", "SE"},
		ShelterFactor:  0.3,
		CrowdFactor:    0.7,
		Parking:        "good",
		Facilities:     []string{"toilets", "showers", "bbq", "playground", "cafe"},
		Notes:          "Groynes provide some protection, family friendly.",
	},
	{
		Name: "Floreat Beach", Area: "Floreat",
		Lat: -31.9283, Lon: 115.7561,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFactor:  0.2,
		CrowdFactor:    0.4,
		Parking:        "good",
		Facilities:     []string{"toilets", "showers", "kiosk"},
		Notes:          "Quiet beach with boardwalk and kiosk.",
	},
	{
		Name: "Scarborough Beach", Area: "Scarborough",
		Lat: -31.8939, Lon: 115.7569,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFactor:  0.1,
		CrowdFactor:    0.85,
		Parking:        "moderate",
		Facilities:     []string{"toilets", "showers", "pool", "cafes", "bars"},
		Notes:          "Popular surf beach, often windy.",
	},
	{
		Name: "Trigg Beach", Area: "Trigg",
		Lat: -31.8717, Lon: 115.7564,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"E", "SE"},
		ShelterFactor:  0.1,
		CrowdFactor:    0.6,
		Parking:        "moderate",
		Facilities:     []string{"toilets", "showers", "cafe"},
		Notes:          "Surf beach with reef, exposed.",
	},
	{
		Name: "Sorrento Beach", Area: "Sorrento",
		Lat: -31.8261, Lon: 115.7522,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFactor:  0.2,
		CrowdFactor:    0.6,
		Parking:        "good",
		Facilities:     []string{"toilets", "showers", "cafes"},
		Notes:          "Cafes at the Quay, good sunset spot.",
	},
	{
		Name: "Hillarys Beach", Area: "Hillarys",
		Lat: -31.8069, Lon: 115.7383,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW", "NW", "N"},
		ShelterFactor:  0.8,
		CrowdFactor:    0.7,
		Parking:        "good",
		Facilities:     []string{"toilets", "showers", "cafes"},
		Notes:          "Marina breakwater provides excellent shelter.",
	},
	{
		Name: "Leighton Beach", Area: "North Fremantle",
		Lat: -32.0264, Lon: 115.7511,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"E", "SE"},
		ShelterFactor:  0.2,
		CrowdFactor:    0.5,
		Parking:        "good",
		Facilities:     []string{"toilets", "showers", "cafe"},
		Notes:          "Dog beach, kite surfing, can be windy.",
	},
	{
		Name: "South Beach", Area: "Fremantle",
		Lat: -32.0731, Lon: 115.7558,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"E"},
		ShelterFactor:  0.2,
		CrowdFactor:    0.5,
		Parking:        "good",
		Facilities:     []string{"toilets", "showers", "bbq", "playground"},
		Notes:          "Dogs allowed, grassy areas, cafe strip nearby.",
	},
	{
		Name: "Bathers Beach", Area: "Fremantle",
		Lat: -32.0561, Lon: 115.7467,
		Category:       domain.CategoryBeach,
		ShoreNormalDeg: defaultShoreNormalDeg,
		ShelterFrom:    []string{"W", "SW", "NW", "N", "S"},
		ShelterFactor:  0.9,
		CrowdFactor:    0.6,
		Parking:        "limited",
		Facilities:     []string{"toilets", "cafes"},
		Notes:          "Fishing boat harbour, very sheltered.",
	},
}

// Load returns the validated location set. When path is non-empty the file
// replaces the built-in table entirely (it is reference data, not an
// overlay).
func Load(path string) ([]domain.Location, error) {
	locs := Defaults
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read locations file: %w", err)
		}
		var fromFile []domain.Location
		if err := json.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parse locations file: %w", err)
		}
		locs = fromFile
	}

	seen := make(map[string]struct{}, len(locs))
	for _, loc := range locs {
		if err := loc.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[loc.Name]; dup {
			return nil, &domain.InvalidLocationConfigError{Location: loc.Name, Field: "name", Reason: "duplicate"}
		}
		seen[loc.Name] = struct{}{}
	}
	return locs, nil
}
