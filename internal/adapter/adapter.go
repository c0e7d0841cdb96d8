// filename: internal/adapter/adapter.go
package adapter

import (
	"context"

	"github.com/novasec/honeydash/internal/models"
)

// Adapter источник данных дашборда. Все методы принимают окно времени и фильтры
// и возвращают готовые для отображения агрегаты. // v1.0
type Adapter interface {
	Name() string
	Summary(ctx context.Context, rng models.TimeRange, f models.Filters) (models.KPISummary, error)
	AttacksOverTime(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TimeSeriesPoint, error)
	TopPorts(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error)
	TopIPs(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error)
	EventTypes(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error)
	TopCountries(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error)
	RecentEvents(ctx context.Context, rng models.TimeRange, f models.Filters, page models.Page) (models.PaginatedResponse[models.Event], error)
	MapPoints(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.MapPoint, error)
}

// CredentialInsights необязательная возможность: рейтинги учетных данных SSH
type CredentialInsights interface {
	TopSSHUsernames(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error)
	TopSSHPasswords(ctx context.Context, rng models.TimeRange, f models.Filters) ([]models.TopItem, error)
}

// ThreatIntel необязательная возможность: сводка threat intelligence
type ThreatIntel interface {
	TISummary(ctx context.Context, rng models.TimeRange, f models.Filters) (models.TISummary, error)
}

// TopSSHUsernames вызывает возможность адаптера или возвращает пустой рейтинг // v1.0
func TopSSHUsernames(ctx context.Context, a Adapter, rng models.TimeRange, f models.Filters) ([]models.TopItem, error) {
	if c, ok := a.(CredentialInsights); ok {
		return c.TopSSHUsernames(ctx, rng, f)
	}
	return []models.TopItem{}, nil
}

// TopSSHPasswords вызывает возможность адаптера или возвращает пустой рейтинг // v1.0
func TopSSHPasswords(ctx context.Context, a Adapter, rng models.TimeRange, f models.Filters) ([]models.TopItem, error) {
	if c, ok := a.(CredentialInsights); ok {
		return c.TopSSHPasswords(ctx, rng, f)
	}
	return []models.TopItem{}, nil
}

// TISummary вызывает возможность адаптера или возвращает нулевую сводку // v1.0
func TISummary(ctx context.Context, a Adapter, rng models.TimeRange, f models.Filters) (models.TISummary, error) {
	if ti, ok := a.(ThreatIntel); ok {
		return ti.TISummary(ctx, rng, f)
	}
	return EmptyTISummary(), nil
}

// EmptyTISummary сводка для адаптеров без threat intelligence
func EmptyTISummary() models.TISummary {
	return models.TISummary{
		TopMalwareFamilies: []models.FamilyCount{},
		TopMaliciousIPs:    []models.MaliciousIP{},
		TopUploads:         []models.UploadSummary{},
	}
}

// Capabilities перечисляет необязательные возможности адаптера // v1.0
func Capabilities(a Adapter) []string {
	caps := []string{}
	if _, ok := a.(CredentialInsights); ok {
		caps = append(caps, "credential_insights")
	}
	if _, ok := a.(ThreatIntel); ok {
		caps = append(caps, "threat_intel")
	}
	return caps
}
