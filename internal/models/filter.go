// internal/models/filter.go
package models

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// TimePreset именованный диапазон времени
type TimePreset string

const (
	PresetAll    TimePreset = "all"
	Preset15m    TimePreset = "15m"
	Preset1h     TimePreset = "1h"
	Preset24h    TimePreset = "24h"
	Preset7d     TimePreset = "7d"
	Preset14d    TimePreset = "14d"
	Preset30d    TimePreset = "30d"
	PresetCustom TimePreset = "custom"
)

// Epoch начало диапазона "за все время"
var Epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

var presetDurations = map[TimePreset]time.Duration{
	Preset15m: 15 * time.Minute,
	Preset1h:  time.Hour,
	Preset24h: 24 * time.Hour,
	Preset7d:  7 * 24 * time.Hour,
	Preset14d: 14 * 24 * time.Hour,
	Preset30d: 30 * 24 * time.Hour,
}

// TimeRange временное окно запроса, границы включительно
type TimeRange struct {
	From   time.Time  `json:"from" validate:"required"`
	To     time.Time  `json:"to" validate:"required,gtefield=From"`
	Preset TimePreset `json:"preset,omitempty" validate:"omitempty,oneof=all 15m 1h 24h 7d 14d 30d custom"`
}

// RangeFromPreset строит окно, заканчивающееся в now. Неизвестный пресет трактуется как 30d. // v1.0
func RangeFromPreset(preset TimePreset, now time.Time) TimeRange {
	now = now.UTC()
	if preset == PresetAll {
		return TimeRange{From: Epoch, To: now, Preset: preset}
	}

	d, ok := presetDurations[preset]
	if !ok {
		d = presetDurations[Preset30d]
	}
	return TimeRange{From: now.Add(-d), To: now, Preset: preset}
}

// AllTime окно от эпохи до now // v1.0
func AllTime(now time.Time) TimeRange {
	return TimeRange{From: Epoch, To: now.UTC(), Preset: PresetCustom}
}

// Contains проверяет from <= ts <= to // v1.0
func (r TimeRange) Contains(ts time.Time) bool {
	return !ts.Before(r.From) && !ts.After(r.To)
}

// Span возвращает длительность окна // v1.0
func (r TimeRange) Span() time.Duration {
	return r.To.Sub(r.From)
}

// Validate проверяет окно // v1.0
func (r TimeRange) Validate() error {
	return validate().Struct(r)
}

// Filters многомерный фильтр: ИЛИ внутри поля, И между полями.
// Пустое значение поля означает отсутствие ограничения.
type Filters struct {
	Sensors    []string `json:"sensors"`
	Protocols  []string `json:"protocols"`
	Countries  []string `json:"countries"`
	EventTypes []string `json:"eventTypes,omitempty"`
	IPAddress  string   `json:"ipAddress,omitempty"`
	Username   string   `json:"usernameQuery,omitempty"`
	Password   string   `json:"passwordQuery,omitempty"`
	// Deprecated: используйте Username и Password. Поддерживается для старых сохраненных фильтров.
	Credentials string `json:"credentialsQuery,omitempty"`
	Query       string `json:"query,omitempty"`
}

// IsEmpty проверяет, что фильтр ничего не ограничивает // v1.0
func (f Filters) IsEmpty() bool {
	return len(f.Sensors) == 0 &&
		len(f.Protocols) == 0 &&
		len(f.Countries) == 0 &&
		len(f.EventTypes) == 0 &&
		strings.TrimSpace(f.IPAddress) == "" &&
		f.Username == "" &&
		f.Password == "" &&
		f.Credentials == "" &&
		f.Query == ""
}

// Page параметры постраничной выдачи, страницы нумеруются с нуля
type Page struct {
	Page     int `json:"page" validate:"gte=0"`
	PageSize int `json:"pageSize" validate:"gte=1,lte=500"`
}

// Validate проверяет параметры страницы // v1.0
func (p Page) Validate() error {
	return validate().Struct(p)
}

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

func validate() *validator.Validate {
	validateOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// ValidationMessage переводит ошибку валидатора в короткое сообщение для клиента // v1.0
func ValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
