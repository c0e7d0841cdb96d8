// filename: internal/api/routes/dashboard.go
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novasec/honeydash/internal/adapter"
	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/models"
)

// DashboardHandler отдает агрегаты дашборда через выбранный адаптер // v1.0
type DashboardHandler struct {
	registry *adapter.Registry
	logger   *logging.Logger
	now      func() time.Time
}

// NewDashboardHandler создает обработчик дашборда // v1.0
func NewDashboardHandler(registry *adapter.Registry, logger *logging.Logger) *DashboardHandler {
	return &DashboardHandler{
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// request общие параметры запроса к агрегатам
type request struct {
	adapter adapter.Adapter
	rng     models.TimeRange
	filters models.Filters
}

// parse разбирает окно, фильтры и выбирает адаптер по параметру adapter // v1.0
func (h *DashboardHandler) parse(c *gin.Context) (request, bool) {
	rng, err := ParseTimeRange(c, h.now())
	if err != nil {
		respondError(c, err)
		return request{}, false
	}

	a := h.registry.Get(c.DefaultQuery("adapter", adapter.DefaultName))
	if a == nil {
		respondError(c, errors.New(errors.ErrorCodeAdapterNotFound, "no adapter registered"))
		return request{}, false
	}

	return request{adapter: a, rng: rng, filters: ParseFilters(c)}, true
}

// serve выполняет запрос к адаптеру и отдает результат // v1.0
func serve[T any](h *DashboardHandler, c *gin.Context, call func(ctx context.Context, r request) (T, error)) {
	r, ok := h.parse(c)
	if !ok {
		return
	}

	result, err := call(c.Request.Context(), r)
	if err != nil {
		if errors.StatusCode(err) >= http.StatusInternalServerError {
			h.logger.WithError(err).WithField("route", c.FullPath()).Error("Dashboard query failed")
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Summary GET /dashboard/summary // v1.0
func (h *DashboardHandler) Summary(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) (models.KPISummary, error) {
		return r.adapter.Summary(ctx, r.rng, r.filters)
	})
}

// Timeline GET /dashboard/timeline // v1.0
func (h *DashboardHandler) Timeline(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) ([]models.TimeSeriesPoint, error) {
		return r.adapter.AttacksOverTime(ctx, r.rng, r.filters)
	})
}

// TopPorts GET /dashboard/top/ports // v1.0
func (h *DashboardHandler) TopPorts(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) ([]models.TopItem, error) {
		return r.adapter.TopPorts(ctx, r.rng, r.filters)
	})
}

// TopIPs GET /dashboard/top/ips // v1.0
func (h *DashboardHandler) TopIPs(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) ([]models.TopItem, error) {
		return r.adapter.TopIPs(ctx, r.rng, r.filters)
	})
}

// EventTypes GET /dashboard/top/event-types // v1.0
func (h *DashboardHandler) EventTypes(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) ([]models.TopItem, error) {
		return r.adapter.EventTypes(ctx, r.rng, r.filters)
	})
}

// TopCountries GET /dashboard/top/countries // v1.0
func (h *DashboardHandler) TopCountries(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) ([]models.TopItem, error) {
		return r.adapter.TopCountries(ctx, r.rng, r.filters)
	})
}

// TopSSHUsernames GET /dashboard/top/ssh-usernames // v1.0
func (h *DashboardHandler) TopSSHUsernames(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) ([]models.TopItem, error) {
		return adapter.TopSSHUsernames(ctx, r.adapter, r.rng, r.filters)
	})
}

// TopSSHPasswords GET /dashboard/top/ssh-passwords // v1.0
func (h *DashboardHandler) TopSSHPasswords(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) ([]models.TopItem, error) {
		return adapter.TopSSHPasswords(ctx, r.adapter, r.rng, r.filters)
	})
}

// Events GET /dashboard/events // v1.0
func (h *DashboardHandler) Events(c *gin.Context) {
	page, err := ParsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	serve(h, c, func(ctx context.Context, r request) (models.PaginatedResponse[models.Event], error) {
		return r.adapter.RecentEvents(ctx, r.rng, r.filters, page)
	})
}

// MapPoints GET /dashboard/map // v1.0
func (h *DashboardHandler) MapPoints(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) ([]models.MapPoint, error) {
		return r.adapter.MapPoints(ctx, r.rng, r.filters)
	})
}

// ThreatIntel GET /dashboard/threat-intel // v1.0
func (h *DashboardHandler) ThreatIntel(c *gin.Context) {
	serve(h, c, func(ctx context.Context, r request) (models.TISummary, error) {
		return adapter.TISummary(ctx, r.adapter, r.rng, r.filters)
	})
}

// Adapters GET /dashboard/adapters // v1.0
func (h *DashboardHandler) Adapters(c *gin.Context) {
	names := h.registry.Names()
	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		out = append(out, gin.H{
			"name":         name,
			"default":      name == adapter.DefaultName,
			"capabilities": adapter.Capabilities(h.registry.Get(name)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"adapters": out})
}
