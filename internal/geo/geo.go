// filename: internal/geo/geo.go
package geo

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/novasec/honeydash/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var countriesYAML []byte

// Country строка справочника стран
type Country struct {
	ISO2     string          `yaml:"iso2"`
	ISO3     string          `yaml:"iso3"`
	Names    []string        `yaml:"names"`
	Centroid models.Location `yaml:"centroid"`
}

type tableFile struct {
	Countries []Country                  `yaml:"countries"`
	Pinned    map[string]models.Location `yaml:"pinned"`
}

// Table индексированный справочник стран
type Table struct {
	iso3      map[string]string
	names     map[string]string
	centroids map[string]models.Location
	pinned    map[string]models.Location
}

// Load читает справочник из YAML // v1.0
func Load(r io.Reader) (*Table, error) {
	var file tableFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode country table: %w", err)
	}

	t := &Table{
		iso3:      make(map[string]string, len(file.Countries)),
		names:     make(map[string]string),
		centroids: make(map[string]models.Location, len(file.Countries)),
		pinned:    make(map[string]models.Location, len(file.Pinned)),
	}

	for i, c := range file.Countries {
		iso2 := strings.ToUpper(strings.TrimSpace(c.ISO2))
		if len(iso2) != 2 {
			return nil, fmt.Errorf("country #%d: invalid iso2 %q", i, c.ISO2)
		}
		if c.ISO3 != "" {
			t.iso3[strings.ToUpper(strings.TrimSpace(c.ISO3))] = iso2
		}
		for _, name := range c.Names {
			t.names[strings.ToLower(strings.TrimSpace(name))] = iso2
		}
		t.centroids[iso2] = c.Centroid
	}

	for code, loc := range file.Pinned {
		t.pinned[strings.ToUpper(code)] = loc
	}

	return t, nil
}

var defaultTable = mustLoadDefault()

func mustLoadDefault() *Table {
	t, err := Load(bytes.NewReader(countriesYAML))
	if err != nil {
		panic(err)
	}
	return t
}

// Default возвращает встроенный справочник
func Default() *Table { return defaultTable }

// NormalizeISO2 приводит код ISO2/ISO3 или название страны к ISO2.
// Неизвестный код возвращается в верхнем регистре, пустой вход дает "". // v1.0
func (t *Table) NormalizeISO2(code, name string) string {
	code = strings.TrimSpace(code)
	if code != "" {
		up := strings.ToUpper(code)
		if len(up) == 2 {
			return up
		}
		if iso2, ok := t.iso3[up]; ok && len(up) == 3 {
			return iso2
		}
	}

	if key := strings.ToLower(strings.TrimSpace(name)); key != "" {
		if iso2, ok := t.names[key]; ok {
			return iso2
		}
	}

	return strings.ToUpper(code)
}

// NormalizeFilterCountry нормализует страну из пользовательского фильтра
// по тем же правилам, что и данные событий // v1.0
func (t *Table) NormalizeFilterCountry(c string) string {
	up := strings.ToUpper(strings.TrimSpace(c))
	if len(up) == 2 {
		return up
	}
	if iso2, ok := t.iso3[up]; ok && len(up) == 3 {
		return iso2
	}
	if iso2, ok := t.names[strings.ToLower(strings.TrimSpace(c))]; ok {
		return iso2
	}
	return up
}

// Centroid возвращает центроид страны // v1.0
func (t *Table) Centroid(iso2 string) (models.Location, bool) {
	loc, ok := t.centroids[strings.ToUpper(iso2)]
	return loc, ok
}

// Pinned возвращает закрепленную точку страны // v1.0
func (t *Table) Pinned(iso2 string) (models.Location, bool) {
	loc, ok := t.pinned[strings.ToUpper(iso2)]
	return loc, ok
}

// ResolvePoint выбирает координаты для карты: закрепленная точка страны,
// затем координаты записи, затем центроид // v1.0
func (t *Table) ResolvePoint(iso2 string, loc *models.Location) (models.Location, bool) {
	if p, ok := t.Pinned(iso2); ok {
		return p, true
	}
	if loc != nil {
		return *loc, true
	}
	return t.Centroid(iso2)
}

// NormalizeISO2 нормализует страну по встроенному справочнику
func NormalizeISO2(code, name string) string { return defaultTable.NormalizeISO2(code, name) }

// NormalizeFilterCountry нормализует страну фильтра по встроенному справочнику
func NormalizeFilterCountry(c string) string { return defaultTable.NormalizeFilterCountry(c) }

// ResolvePoint выбирает координаты по встроенному справочнику
func ResolvePoint(iso2 string, loc *models.Location) (models.Location, bool) {
	return defaultTable.ResolvePoint(iso2, loc)
}

// Pinned возвращает закрепленную точку по встроенному справочнику
func Pinned(iso2 string) (models.Location, bool) { return defaultTable.Pinned(iso2) }
