// filename: internal/store/store.go
package store

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/common/metrics"
	"github.com/novasec/honeydash/internal/models"
)

// DefaultTTL время жизни загруженного датасета
const DefaultTTL = 10 * time.Second

const datasetKey = "dataset"

// Loader строит датасет с нуля
type Loader interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// LoaderFunc адаптер функции к Loader
type LoaderFunc func(ctx context.Context) (*models.Dataset, error)

// Load вызывает функцию
func (f LoaderFunc) Load(ctx context.Context) (*models.Dataset, error) { return f(ctx) }

// Stats состояние кэша датасета
type Stats struct {
	Cached    bool              `json:"cached"`
	TTL       string            `json:"ttl"`
	Reloads   int               `json:"reloads"`
	LoadedAt  time.Time         `json:"loadedAt,omitempty"`
	Events    int               `json:"events"`
	Synthetic bool              `json:"synthetic"`
	Report    models.LoadReport `json:"report"`
}

// EventStore кэширует развернутый датасет на TTL. Загрузка выполняется не более
// чем одной горутиной; остальные ждут ее результата. Датасет после загрузки не изменяется. // v1.0
type EventStore struct {
	loader Loader
	logger *logging.Logger
	ttl    time.Duration

	mu      sync.Mutex
	cache   *expirable.LRU[string, *models.Dataset]
	last    *models.Dataset
	reloads int
}

// New создает хранилище. ttl <= 0 отключает истечение. // v1.0
func New(loader Loader, ttl time.Duration, logger *logging.Logger) *EventStore {
	return &EventStore{
		loader: loader,
		logger: logger,
		ttl:    ttl,
		cache:  expirable.NewLRU[string, *models.Dataset](1, nil, ttl),
	}
}

// Dataset возвращает закэшированный датасет или перезагружает устаревший.
// Если перезагрузка не удалась, а прежний датасет есть, возвращается прежний. // v1.0
func (s *EventStore) Dataset(ctx context.Context) (*models.Dataset, error) {
	if ds, ok := s.cache.Get(datasetKey); ok {
		return ds, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Пока ждали блокировку, датасет мог загрузить другой вызов
	if ds, ok := s.cache.Get(datasetKey); ok {
		return ds, nil
	}

	ds, err := s.loader.Load(ctx)
	if err != nil {
		if s.last != nil {
			s.logger.WithError(err).Warn("Dataset reload failed, serving previous dataset")
			return s.last, nil
		}
		return nil, err
	}

	s.cache.Add(datasetKey, ds)
	s.last = ds
	s.reloads++
	metrics.DatasetReloads.Inc()

	return ds, nil
}

// Invalidate сбрасывает кэш; следующий запрос перезагрузит датасет // v1.0
func (s *EventStore) Invalidate() {
	s.cache.Purge()
}

// Reload сбрасывает кэш и сразу загружает датасет заново // v1.0
func (s *EventStore) Reload(ctx context.Context) (*models.Dataset, error) {
	s.Invalidate()
	return s.Dataset(ctx)
}

// Stats возвращает состояние кэша // v1.0
func (s *EventStore) Stats() Stats {
	_, cached := s.cache.Peek(datasetKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Cached:  cached,
		TTL:     s.ttl.String(),
		Reloads: s.reloads,
	}
	if s.last != nil {
		stats.LoadedAt = s.last.LoadedAt
		stats.Events = s.last.Len()
		stats.Synthetic = s.last.Synthetic
		stats.Report = s.last.Report
	}
	return stats
}
