// filename: internal/api/routes/dataset.go
package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/models"
	"github.com/novasec/honeydash/internal/store"
)

// DatasetStore кэш датасета с принудительной перезагрузкой
type DatasetStore interface {
	StatsSource
	Reload(ctx context.Context) (*models.Dataset, error)
}

// DatasetHandler отчет о загрузке и перезагрузка датасета // v1.0
type DatasetHandler struct {
	store  DatasetStore
	logger *logging.Logger
}

// NewDatasetHandler создает обработчик датасета // v1.0
func NewDatasetHandler(s DatasetStore, logger *logging.Logger) *DatasetHandler {
	return &DatasetHandler{store: s, logger: logger}
}

// GetDataset GET /dataset: состояние кэша и отчет последней загрузки // v1.0
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

// Reload POST /dataset/reload: сбрасывает кэш и загружает выгрузки заново // v1.0
func (h *DatasetHandler) Reload(c *gin.Context) {
	ds, err := h.store.Reload(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Dataset reload failed")
		var dashErr *errors.DashError
		if !errors.As(err, &dashErr) {
			err = errors.Wrap(err, errors.ErrorCodeDatasetLoadFailed, "dataset reload failed")
		}
		respondError(c, err)
		return
	}

	h.logger.WithDataset(ds.Len(), ds.Report.Records, ds.Report.Dropped).Info("Dataset reloaded on request")

	c.JSON(http.StatusOK, gin.H{
		"reloaded": true,
		"stats":    h.store.Stats(),
	})
}

var _ DatasetStore = (*store.EventStore)(nil)
