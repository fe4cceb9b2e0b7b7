package locations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandgroper/shorecast/internal/domain"
)

func TestDefaults(t *testing.T) {
	locs, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults, locs)

	seen := map[string]bool{}
	var snorkel, beach int
	for _, loc := range locs {
		assert.NoError(t, loc.Validate(), loc.Name)
		assert.False(t, seen[loc.Name], "duplicate name %s", loc.Name)
		seen[loc.Name] = true
		if loc.Category.Snorkelable() {
			snorkel++
		}
		if loc.Category.Beachable() {
			beach++
		}
	}
	assert.NotZero(t, snorkel)
	assert.NotZero(t, beach)
}

func TestLoad_File(t *testing.T) {
	writeFile := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "locations.json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	t.Run("replaces built-in table", func(t *testing.T) {
		path := writeFile(t, `[
			{"name": "Test Lagoon", "area": "Testville", "lat": -31.9, "lon": 115.75,
			 "category": "snorkel", "shore_normal_deg": 270,
			 "shelter_from": ["W", "SW"], "shelter_factor": 0.7, "crowd_factor": 0.4}
		]`)

		locs, err := Load(path)
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.Equal(t, "Test Lagoon", locs[0].Name)
		assert.Equal(t, domain.CategorySnorkel, locs[0].Category)
		assert.Equal(t, 0.7, locs[0].ShelterFactor)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorContains(t, err, "read locations file")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Load(writeFile(t, `{"not": "a list"}`))
		assert.ErrorContains(t, err, "parse locations file")
	})

	t.Run("invalid category", func(t *testing.T) {
		_, err := Load(writeFile(t, `[
			{"name": "Bad Spot", "lat": -31.9, "lon": 115.75, "category": "surf", "shore_normal_deg": 270}
		]`))
		var cfgErr *domain.InvalidLocationConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "category", cfgErr.Field)
	})

	t.Run("unknown shelter point", func(t *testing.T) {
		_, err := Load(writeFile(t, `[
			{"name": "Bad Spot", "lat": -31.9, "lon": 115.75, "category": "beach",
			 "shore_normal_deg": 270, "shelter_from": ["WWW"]}
		]`))
		var cfgErr *domain.InvalidLocationConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "shelter_from", cfgErr.Field)
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := Load(writeFile(t, `[
			{"name": "Twin", "lat": -31.9, "lon": 115.75, "category": "beach", "shore_normal_deg": 270},
			{"name": "Twin", "lat": -31.8, "lon": 115.74, "category": "beach", "shore_normal_deg": 270}
		]`))
		var cfgErr *domain.InvalidLocationConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "duplicate", cfgErr.Reason)
	})
}
