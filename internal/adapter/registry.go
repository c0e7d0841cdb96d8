// filename: internal/adapter/registry.go
package adapter

import (
	"sort"
	"sync"

	"github.com/novasec/honeydash/internal/common/errors"
)

// DefaultName имя адаптера по умолчанию
const DefaultName = "local"

// Registry хранит адаптеры по имени
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	fallback string
}

// NewRegistry создает реестр с адаптером по умолчанию DefaultName // v1.0
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
		fallback: DefaultName,
	}
}

// Register добавляет или заменяет адаптер // v1.0
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
}

// Get возвращает адаптер по имени, а неизвестное имя разрешает в адаптер по умолчанию.
// nil только если не зарегистрирован и он. // v1.0
func (r *Registry) Get(name string) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.adapters[name]; ok {
		return a
	}
	return r.adapters[r.fallback]
}

// Lookup возвращает адаптер по имени без подстановки // v1.0
func (r *Registry) Lookup(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[name]
	if !ok {
		return nil, errors.New(errors.ErrorCodeAdapterNotFound, "adapter not registered").
			AddDetail("adapter", name)
	}
	return a, nil
}

// Names возвращает отсортированные имена адаптеров // v1.0
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
