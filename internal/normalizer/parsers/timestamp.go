// filename: internal/normalizer/parsers/timestamp.go
package parsers

import (
	"regexp"
	"strings"
	"time"
)

// tzSuffix смещение в конце строки: +04:00, -0500
var tzSuffix = regexp.MustCompile(`[+-]\d{2}:?\d{2}$`)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02Z07:00",
}

// NormalizeTimestamp приводит временную метку сенсора к UTC.
// Поддерживаются разделители пробел и T, метка Z, смещение ±HH:MM и его отсутствие (считается UTC).
// Пустая или неразборчивая строка заменяется на now, второй результат при этом false. // v1.0
func NormalizeTimestamp(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return canonical(now), false
	}

	hasZone := strings.Contains(value, "Z") || tzSuffix.MatchString(value)

	normalized := value
	if !strings.Contains(normalized, "T") {
		normalized = strings.Replace(normalized, " ", "T", 1)
	}
	if !hasZone {
		normalized += "Z"
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, normalized); err == nil {
			return canonical(ts), true
		}
	}

	return canonical(now), false
}

// canonical обрезает до миллисекунд: точность канонической ISO формы
func canonical(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// firstNonEmpty возвращает первую непустую строку
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
