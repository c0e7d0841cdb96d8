// filename: internal/normalizer/pipeline.go
package normalizer

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/common/metrics"
	"github.com/novasec/honeydash/internal/generator"
	"github.com/novasec/honeydash/internal/models"
	"github.com/novasec/honeydash/internal/normalizer/parsers"
)

// Pipeline представляет цикл загрузки: разбор NDJSON, развертывание, сортировка // v1.0
type Pipeline struct {
	config    *Config
	logger    *logging.Logger
	fsys      fs.FS
	expanders *parsers.ExpanderRegistry
	synthetic func(count int, now time.Time) []models.Event
	now       func() time.Time
}

// Config конфигурация pipeline // v1.0
type Config struct {
	Pattern           string `yaml:"pattern"`
	SyntheticFallback bool   `yaml:"synthetic_fallback"`
	SyntheticCount    int    `yaml:"synthetic_count"`
}

// NewPipeline создает pipeline над файловой системой с выгрузками // v1.0
func NewPipeline(config *Config, logger *logging.Logger, fsys fs.FS) *Pipeline {
	if config.Pattern == "" {
		config.Pattern = "*.ndjson"
	}
	if config.SyntheticCount <= 0 {
		config.SyntheticCount = generator.DefaultCount
	}

	return &Pipeline{
		config:    config,
		logger:    logger,
		fsys:      fsys,
		expanders: parsers.NewExpanderRegistry(),
		synthetic: generator.Events,
		now:       time.Now,
	}
}

// Load выполняет полный цикл загрузки и возвращает новый датасет.
// Битые строки и нечитаемые файлы не прерывают загрузку. // v1.0
func (p *Pipeline) Load(ctx context.Context) (*models.Dataset, error) {
	started := p.now()
	pctx := parsers.NewContext(started)

	sources, err := fs.Glob(p.fsys, p.config.Pattern)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeDatasetLoadFailed, "invalid source pattern").
			AddDetail("pattern", p.config.Pattern)
	}

	report := models.LoadReport{Sources: make([]models.SourceReport, 0, len(sources))}
	var events []models.Event
	index := 0

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, errors.Canceled(err)
		}

		records, srcReport, err := p.parseSource(source)
		if err != nil {
			p.logger.WithSource(source).WithError(err).Warn("Failed to read sensor export, skipping")
		}
		report.Sources = append(report.Sources, srcReport)
		report.Records += srcReport.Parsed
		report.Dropped += srcReport.Dropped

		metrics.RecordsParsed.WithLabelValues(source).Add(float64(srcReport.Parsed))
		metrics.RecordsDropped.WithLabelValues(source).Add(float64(srcReport.Dropped))

		for i := range records {
			expanded, kind := p.expanders.Expand(&records[i], index, pctx)
			index++

			metrics.EventsExpanded.WithLabelValues(kind).Add(float64(len(expanded)))
			p.logger.WithRecord(kind, records[i].GroupID()).
				WithField("events", len(expanded)).
				Debug("Expanded sensor record")

			events = append(events, expanded...)
		}
	}

	dataset := &models.Dataset{
		Attempts: pctx.Attempts,
		LoadedAt: started.UTC(),
	}

	if len(events) == 0 && p.config.SyntheticFallback {
		events = p.synthetic(p.config.SyntheticCount, started)
		dataset.Synthetic = true
		metrics.SyntheticFallbacks.Inc()
		p.logger.WithDataset(0, report.Records, report.Dropped).
			WithField("synthetic_events", len(events)).
			Warn("No events expanded from sensor exports, using synthetic dataset")
	}

	SortEvents(events)
	dataset.Events = events

	report.Events = len(events)
	report.EstimatedTimestamps = pctx.Estimated
	report.Duration = p.now().Sub(started)
	dataset.Report = report

	metrics.EstimatedTimestamps.Add(float64(pctx.Estimated))
	metrics.DatasetEvents.Set(float64(len(events)))
	metrics.LoadDuration.Observe(report.Duration.Seconds())

	p.logger.WithDataset(report.Events, report.Records, report.Dropped).
		WithFields(map[string]interface{}{
			"sources":              len(sources),
			"estimated_timestamps": pctx.Estimated,
			"synthetic":            dataset.Synthetic,
			"duration_ms":          float64(report.Duration.Microseconds()) / 1000,
		}).Info("Dataset loaded")

	return dataset, nil
}

// parseSource открывает и разбирает один файл выгрузки // v1.0
func (p *Pipeline) parseSource(source string) ([]models.RawRecord, models.SourceReport, error) {
	f, err := p.fsys.Open(source)
	if err != nil {
		return nil, models.SourceReport{Source: source}, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer f.Close()

	return ParseNDJSON(f, source, p.logger)
}

// SortEvents упорядочивает события по убыванию timestamp, сохраняя порядок равных // v1.0
func SortEvents(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}

// GetStats возвращает параметры pipeline // v1.0
func (p *Pipeline) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"pattern":            p.config.Pattern,
		"synthetic_fallback": p.config.SyntheticFallback,
		"synthetic_count":    p.config.SyntheticCount,
		"expanders":          len(p.expanders.All()),
	}
}
