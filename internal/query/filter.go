// filename: internal/query/filter.go
package query

import (
	"strings"

	"github.com/novasec/honeydash/internal/geo"
	"github.com/novasec/honeydash/internal/models"
)

// Matcher скомпилированный фильтр: окно времени и предикаты по полям.
// Все сравнения строк регистронезависимы.
type Matcher struct {
	rng         models.TimeRange
	sensors     map[string]struct{}
	protocols   map[string]struct{}
	countries   map[string]struct{}
	eventTypes  []string
	ip          string
	username    string
	password    string
	credentials string
	query       string
}

// NewMatcher готовит фильтр к многократному применению // v1.0
func NewMatcher(rng models.TimeRange, f models.Filters) *Matcher {
	return &Matcher{
		rng:         rng,
		sensors:     normalizedSet(f.Sensors, strings.ToLower),
		protocols:   normalizedSet(f.Protocols, strings.ToLower),
		countries:   normalizedSet(f.Countries, geo.NormalizeFilterCountry),
		eventTypes:  lowerList(f.EventTypes),
		ip:          strings.ToLower(strings.TrimSpace(f.IPAddress)),
		username:    strings.ToLower(f.Username),
		password:    strings.ToLower(f.Password),
		credentials: strings.ToLower(f.Credentials),
		query:       strings.ToLower(f.Query),
	}
}

// Match проверяет событие: from <= timestamp <= to и все заданные предикаты // v1.0
func (m *Matcher) Match(e *models.Event) bool {
	if !m.rng.Contains(e.Timestamp) {
		return false
	}

	if len(m.sensors) > 0 && !contains(m.sensors, strings.ToLower(e.Sensor)) &&
		!contains(m.sensors, strings.ToLower(e.SensorType)) {
		return false
	}

	if len(m.protocols) > 0 && !contains(m.protocols, strings.ToLower(e.Protocol)) {
		return false
	}

	if len(m.countries) > 0 {
		iso := geo.NormalizeISO2(e.CountryCode(), "")
		if iso == "" || !contains(m.countries, iso) {
			return false
		}
	}

	if len(m.eventTypes) > 0 && !m.matchEventType(e) {
		return false
	}

	if m.ip != "" && !strings.Contains(strings.ToLower(e.SrcIP), m.ip) {
		return false
	}

	if m.username != "" && !strings.Contains(joinLower(e.Usernames()), m.username) {
		return false
	}

	if m.password != "" && !strings.Contains(joinLower(e.Passwords()), m.password) {
		return false
	}

	if m.credentials != "" && !strings.Contains(joinLower(credentialFields(e)), m.credentials) {
		return false
	}

	if m.query != "" && !strings.Contains(e.SearchText(), m.query) {
		return false
	}

	return true
}

// matchEventType ищет любую метку как подстроку типа события, атаки или протокола // v1.0
func (m *Matcher) matchEventType(e *models.Event) bool {
	fields := make([]string, 0, 3)
	for _, v := range []string{e.EventType, e.Attack, e.Protocol} {
		if v != "" {
			fields = append(fields, strings.ToLower(v))
		}
	}

	for _, label := range m.eventTypes {
		for _, field := range fields {
			if strings.Contains(field, label) {
				return true
			}
		}
	}
	return false
}

// Apply возвращает события, прошедшие фильтр, в исходном порядке // v1.0
func Apply(events []models.Event, rng models.TimeRange, f models.Filters) []models.Event {
	m := NewMatcher(rng, f)
	out := make([]models.Event, 0, len(events))
	for i := range events {
		if m.Match(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

func normalizedSet(values []string, norm func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		set[norm(v)] = struct{}{}
	}
	return set
}

func lowerList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, strings.ToLower(v))
		}
	}
	return out
}

// credentialFields возвращает непустые учетные данные ssh и auth фасетов // v1.0
func credentialFields(e *models.Event) []string {
	var out []string
	if e.SSH != nil {
		out = appendNonEmpty(out, e.SSH.Username, e.SSH.Password)
	}
	if e.Auth != nil {
		out = appendNonEmpty(out, e.Auth.Username, e.Auth.Password)
	}
	return out
}

func appendNonEmpty(dst []string, values ...string) []string {
	for _, v := range values {
		if v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}

func contains(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}

func joinLower(values []string) string {
	return strings.ToLower(strings.Join(values, " "))
}
