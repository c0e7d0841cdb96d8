// filename: internal/normalizer/parsers/interface.go
package parsers

import (
	"sort"

	"github.com/novasec/honeydash/internal/models"
)

// Expander интерфейс развертывания сырой записи в канонические события // v1.0
type Expander interface {
	// GetName возвращает имя формы записи
	GetName() string

	// GetPriority возвращает приоритет: при совпадении побеждает больший
	GetPriority() int

	// CanExpand определяет, относится ли запись к форме развертывателя
	CanExpand(rec *models.RawRecord) bool

	// Expand разворачивает запись. index глобальный номер записи в цикле загрузки.
	Expand(rec *models.RawRecord, index int, ctx *Context) []models.Event
}

// ExpanderRegistry реестр развертывателей, упорядоченный по приоритету // v1.0
type ExpanderRegistry struct {
	expanders []Expander
	fallback  Expander
}

// NewExpanderRegistry создает реестр со всеми встроенными формами записей // v1.0
func NewExpanderRegistry() *ExpanderRegistry {
	probe := NewProbeExpander()
	registry := &ExpanderRegistry{fallback: probe}

	// Регистрируем встроенные развертыватели
	registry.Register(NewCampaignExpander())
	registry.Register(NewSessionExpander())
	registry.Register(NewAttemptListExpander())
	registry.Register(probe)

	return registry
}

// Register добавляет развертыватель и сохраняет порядок по приоритету // v1.0
func (r *ExpanderRegistry) Register(e Expander) {
	r.expanders = append(r.expanders, e)
	sort.SliceStable(r.expanders, func(i, j int) bool {
		return r.expanders[i].GetPriority() > r.expanders[j].GetPriority()
	})
}

// Get возвращает развертыватель по имени // v1.0
func (r *ExpanderRegistry) Get(name string) (Expander, bool) {
	for _, e := range r.expanders {
		if e.GetName() == name {
			return e, true
		}
	}
	return nil, false
}

// All возвращает развертыватели в порядке приоритета // v1.0
func (r *ExpanderRegistry) All() []Expander {
	out := make([]Expander, len(r.expanders))
	copy(out, r.expanders)
	return out
}

// ExpanderFor возвращает развертыватель с наибольшим приоритетом, принимающий запись.
// Запись без маркеров уходит одиночной пробе. // v1.0
func (r *ExpanderRegistry) ExpanderFor(rec *models.RawRecord) Expander {
	for _, e := range r.expanders {
		if e.CanExpand(rec) {
			return e
		}
	}
	return r.fallback
}

// Expand разворачивает запись подходящим развертывателем // v1.0
func (r *ExpanderRegistry) Expand(rec *models.RawRecord, index int, ctx *Context) ([]models.Event, string) {
	e := r.ExpanderFor(rec)
	return e.Expand(rec, index, ctx), e.GetName()
}
