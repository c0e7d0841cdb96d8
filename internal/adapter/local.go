// filename: internal/adapter/local.go
package adapter

import (
	"context"
	"time"

	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/models"
	"github.com/novasec/honeydash/internal/query"
)

// DatasetSource отдает текущий датасет; реализуется store.EventStore
type DatasetSource interface {
	Dataset(ctx context.Context) (*models.Dataset, error)
}

var (
	_ Adapter            = (*LocalAdapter)(nil)
	_ CredentialInsights = (*LocalAdapter)(nil)
	_ ThreatIntel        = (*LocalAdapter)(nil)
)

// LocalAdapter считает агрегаты по датасету из локальных NDJSON выгрузок
type LocalAdapter struct {
	source DatasetSource
	logger *logging.Logger
	now    func() time.Time
}

// NewLocalAdapter создает адаптер поверх хранилища событий // v1.0
func NewLocalAdapter(source DatasetSource, logger *logging.Logger) *LocalAdapter {
	return &LocalAdapter{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Name возвращает имя адаптера
func (a *LocalAdapter) Name() string { return DefaultName }

// dataset проверяет вход и возвращает датасет // v1.0
func (a *LocalAdapter) dataset(ctx context.Context, rng models.TimeRange) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled(err)
	}

	if err := rng.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeInvalidTimeRange, models.ValidationMessage(err))
	}

	ds, err := a.source.Dataset(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Canceled(err)
		}
		a.logger.WithError(err).Error("Dataset unavailable")
		return nil, errors.Wrap(err, errors.ErrorCodeDatasetLoadFailed, "failed to load dataset")
	}
	return ds, nil
}

// filtered возвращает датасет и события, прошедшие фильтр // v1.0
func (a *LocalAdapter) filtered(ctx context.Context, rng models.TimeRange, f models.Filters) (*models.Dataset, []models.Event, error) {
	ds, err := a.dataset(ctx, rng)
	if err != nil {
		return nil, nil, err
	}
	return ds, query.Apply(ds.Events, rng, f), nil
}

// Summary KPI по окну и фильтрам // v1.0
func (a *LocalAdapter) Summary(ctx context.Context, rng models.TimeRange, f models.Filters) (models.KPISummary, error) {
	ds, events, err := a.filtered(ctx, rng, f)
	if err != nil {
		return models.KPISummary{}, err
	}
	return query.Summary(events, ds.Attempts), nil
}

// AttacksOverTime временной ряд по корзинам // v1.0
func (a *LocalAdapter) AttacksOverTime(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TimeSeriesPoint, error) {
	ds, err := a.dataset(ctx, rng)
	if err != nil {
		return nil, err
	}
	return nonNil(query.TimeSeries(ds.Events, rng, f, a.now())), nil
}

// TopPorts рейтинг портов // v1.0
func (a *LocalAdapter) TopPorts(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error) {
	return a.top(ctx, rng, f, query.TopPorts)
}

// TopIPs рейтинг адресов // v1.0
func (a *LocalAdapter) TopIPs(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error) {
	return a.top(ctx, rng, f, query.TopIPs)
}

// EventTypes рейтинг типов атак // v1.0
func (a *LocalAdapter) EventTypes(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error) {
	return a.top(ctx, rng, f, query.EventTypes)
}

// TopCountries рейтинг стран // v1.0
func (a *LocalAdapter) TopCountries(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error) {
	return a.top(ctx, rng, f, query.TopCountries)
}

// TopSSHUsernames рейтинг имен SSH // v1.0
func (a *LocalAdapter) TopSSHUsernames(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error) {
	return a.top(ctx, rng, f, query.TopSSHUsernames)
}

// TopSSHPasswords рейтинг паролей SSH // v1.0
func (a *LocalAdapter) TopSSHPasswords(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error) {
	return a.top(ctx, rng, f, query.TopSSHPasswords)
}

func (a *LocalAdapter) top(ctx context.Context, rng models.TimeRange, f models.Filters, rank func([]models.Event) []models.TopItem) ([]models.TopItem, error) {
	_, events, err := a.filtered(ctx, rng, f)
	if err != nil {
		return nil, err
	}
	return rank(events), nil
}

// RecentEvents страница событий от новых к старым // v1.0
func (a *LocalAdapter) RecentEvents(ctx context.Context, rng models.TimeRange, f models.Filters, page models.Page) (models.PaginatedResponse[models.Event], error) {
	if err := page.Validate(); err != nil {
		return models.PaginatedResponse[models.Event]{}, errors.Wrap(err, errors.ErrorCodeInvalidPagination, models.ValidationMessage(err))
	}

	_, events, err := a.filtered(ctx, rng, f)
	if err != nil {
		return models.PaginatedResponse[models.Event]{}, err
	}
	return query.Paginate(events, page), nil
}

// MapPoints точки карты // v1.0
func (a *LocalAdapter) MapPoints(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.MapPoint, error) {
	ds, err := a.dataset(ctx, rng)
	if err != nil {
		return nil, err
	}
	return nonNil(query.MapPoints(ds.Events, rng, f)), nil
}

// TISummary сводка threat intelligence // v1.0
func (a *LocalAdapter) TISummary(ctx context.Context, rng models.TimeRange, f models.Filters) (models.TISummary, error) {
	_, events, err := a.filtered(ctx, rng, f)
	if err != nil {
		return models.TISummary{}, err
	}
	return query.TISummary(events), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
