// filename: internal/geo/geo_test.go
package geo

import (
	"strings"
	"testing"

	"github.com/novasec/honeydash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeISO2(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		country  string
		expected string
	}{
		{"iso2 lower", "om", "", "OM"},
		{"iso3", "OMN", "", "OM"},
		{"name", "", "Oman", "OM"},
		{"name with spaces", "", "  United States of America ", "US"},
		{"iso2 wins over name", "DE", "France", "DE"},
		{"unknown iso3 falls to name", "XYZ", "germany", "DE"},
		{"unknown iso3 kept upper", "xyz", "", "XYZ"},
		{"unknown name", "", "Atlantis", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeISO2(tt.code, tt.country))
		})
	}
}

func TestNormalizationStableUnderComposition(t *testing.T) {
	for _, variant := range []struct{ code, name string }{
		{"TR", ""}, {"TUR", ""}, {"", "Turkey"},
	} {
		iso := NormalizeISO2(variant.code, variant.name)
		assert.Equal(t, "TR", iso)
		assert.Equal(t, iso, NormalizeISO2(iso, ""))
		assert.Equal(t, iso, NormalizeFilterCountry(iso))
	}
}

func TestNormalizeFilterCountry(t *testing.T) {
	assert.Equal(t, "OM", NormalizeFilterCountry("om"))
	assert.Equal(t, "OM", NormalizeFilterCountry("OMN"))
	assert.Equal(t, "OM", NormalizeFilterCountry("Oman"))
	assert.Equal(t, "GB", NormalizeFilterCountry("uk"))
	assert.Equal(t, "NARNIA", NormalizeFilterCountry("Narnia"))
}

func TestResolvePoint(t *testing.T) {
	explicit := &models.Location{Lat: 10, Lon: 20}

	p, ok := ResolvePoint("OM", explicit)
	require.True(t, ok)
	assert.Equal(t, models.Location{Lat: 23.5880, Lon: 58.3829}, p)

	p, ok = ResolvePoint("DE", explicit)
	require.True(t, ok)
	assert.Equal(t, *explicit, p)

	p, ok = ResolvePoint("DE", nil)
	require.True(t, ok)
	assert.Equal(t, models.Location{Lat: 51.16, Lon: 10.45}, p)

	_, ok = ResolvePoint("ZZ", nil)
	assert.False(t, ok)
}

func TestLoadRejectsInvalidISO2(t *testing.T) {
	_, err := Load(strings.NewReader("countries:\n  - iso2: USA\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("countries: ["))
	assert.Error(t, err)
}

func TestLoadCustomTable(t *testing.T) {
	table, err := Load(strings.NewReader(`
countries:
  - iso2: nl
    iso3: nld
    names: ["Holland"]
    centroid: {lat: 52.1, lon: 5.3}
`))
	require.NoError(t, err)

	assert.Equal(t, "NL", table.NormalizeISO2("NLD", ""))
	assert.Equal(t, "NL", table.NormalizeISO2("", "holland"))
	c, ok := table.Centroid("nl")
	require.True(t, ok)
	assert.Equal(t, 52.1, c.Lat)
	_, ok = table.Pinned("OM")
	assert.False(t, ok)
}
