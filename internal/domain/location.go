package domain

import "github.com/sandgroper/shorecast/internal/compass"

// Category says which ratings a location participates in.
type Category string

const (
	CategorySnorkel Category = "snorkel"
	CategoryBeach   Category = "beach"
	CategoryBoth    Category = "both"
)

// Snorkelable reports whether the location gets a snorkel rating.
func (c Category) Snorkelable() bool {
	return c == CategorySnorkel || c == CategoryBoth
}

// Beachable reports whether the location gets a beach rating.
func (c Category) Beachable() bool {
	return c == CategoryBeach || c == CategoryBoth
}

// Location is an immutable reference-data record for one beach. Loaded once
// at startup and validated; scoring never mutates it.
type Location struct {
	Name     string   `json:"name"`
	Area     string   `json:"area"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Category Category `json:"category"`

	// ShoreNormalDeg is the bearing out to sea.
	ShoreNormalDeg float64 `json:"shore_normal_deg"`
	// ShelterFrom lists compass points the location is protected from;
	// ShelterFactor (0-1) is how complete that protection is (reef,
	// headland, breakwater).
	ShelterFrom   []string `json:"shelter_from"`
	ShelterFactor float64  `json:"shelter_factor"`

	// CrowdFactor (0-1) is the baseline busyness on an average day.
	CrowdFactor float64 `json:"crowd_factor"`

	Parking    string   `json:"parking,omitempty"`
	Facilities []string `json:"facilities,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Validate checks the fields scoring cannot work without. A location that
// fails validation indicates a configuration defect and aborts the run.
func (l Location) Validate() error {
	if l.Name == "" {
		return &InvalidLocationConfigError{Location: "(unnamed)", Field: "name", Reason: "required"}
	}
	switch l.Category {
	case CategorySnorkel, CategoryBeach, CategoryBoth:
	default:
		return &InvalidLocationConfigError{Location: l.Name, Field: "category", Reason: "must be snorkel, beach, or both"}
	}
	if l.Lat < -90 || l.Lat > 90 || l.Lon < -180 || l.Lon > 180 {
		return &InvalidLocationConfigError{Location: l.Name, Field: "lat/lon", Reason: "out of range"}
	}
	if l.ShoreNormalDeg < 0 || l.ShoreNormalDeg >= 360 {
		return &InvalidLocationConfigError{Location: l.Name, Field: "shore_normal_deg", Reason: "must be in [0, 360)"}
	}
	if l.ShelterFactor < 0 || l.ShelterFactor > 1 {
		return &InvalidLocationConfigError{Location: l.Name, Field: "shelter_factor", Reason: "must be in [0, 1]"}
	}
	if l.CrowdFactor < 0 || l.CrowdFactor > 1 {
		return &InvalidLocationConfigError{Location: l.Name, Field: "crowd_factor", Reason: "must be in [0, 1]"}
	}
	for _, point := range l.ShelterFrom {
		if _, ok := compass.ToDegrees(point); !ok {
			return &InvalidLocationConfigError{Location: l.Name, Field: "shelter_from", Reason: "unknown compass point " + point}
		}
	}
	return nil
}
