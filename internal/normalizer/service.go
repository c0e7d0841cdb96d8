// filename: internal/normalizer/service.go
// honeydash dataset service

package normalizer

import (
	"context"
	"os"

	"github.com/novasec/honeydash/internal/common/config"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/store"
)

// Service владеет pipeline загрузки и кэшем датасета
type Service struct {
	config   *config.Config
	logger   *logging.Logger
	pipeline *Pipeline
	store    *store.EventStore
	stopChan chan struct{}
}

// NewService создает сервис над каталогом выгрузок из конфигурации // v1.0
func NewService(cfg *config.Config, logger *logging.Logger) *Service {
	pipeline := NewPipeline(&Config{
		Pattern:           cfg.Data.Pattern,
		SyntheticFallback: cfg.Data.SyntheticFallback,
		SyntheticCount:    cfg.Data.SyntheticCount,
	}, logger, os.DirFS(cfg.Data.Dir))

	return &Service{
		config:   cfg,
		logger:   logger,
		pipeline: pipeline,
		store:    store.New(pipeline, cfg.Data.CacheTTL, logger),
		stopChan: make(chan struct{}),
	}
}

// Store возвращает кэш датасета для адаптеров
func (s *Service) Store() *store.EventStore {
	return s.store
}

// Pipeline возвращает pipeline загрузки
func (s *Service) Pipeline() *Pipeline {
	return s.pipeline
}

// Warm загружает датасет заранее, чтобы первый запрос не ждал разбора выгрузок // v1.0
func (s *Service) Warm(ctx context.Context) error {
	ds, err := s.store.Dataset(ctx)
	if err != nil {
		return err
	}

	s.logger.WithDataset(ds.Len(), ds.Report.Records, ds.Report.Dropped).
		WithField("data_dir", s.config.Data.Dir).
		Info("Dataset warmed")
	return nil
}

// Start прогревает датасет и ждет остановки // v1.0
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting dataset service")

	if err := s.Warm(ctx); err != nil {
		s.logger.WithError(err).Warn("Initial dataset load failed, will retry on first request")
	}

	select {
	case <-ctx.Done():
		s.logger.Info("Context cancelled, stopping dataset service")
	case <-s.stopChan:
		s.logger.Info("Stop signal received, stopping dataset service")
	}

	return nil
}

// Stop останавливает сервис
func (s *Service) Stop() {
	close(s.stopChan)
}
