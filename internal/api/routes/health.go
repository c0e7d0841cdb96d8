// filename: internal/api/routes/health.go
package routes

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/store"
)

const serviceName = "honeydash"

// StatsSource отдает состояние кэша датасета
type StatsSource interface {
	Stats() store.Stats
}

// HealthHandler обработчик для проверки здоровья сервиса // v1.0
type HealthHandler struct {
	logger    *logging.Logger
	stats     StatsSource
	startTime time.Time
}

// NewHealthHandler создает новый обработчик здоровья // v1.0
func NewHealthHandler(logger *logging.Logger, stats StatsSource) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		stats:     stats,
		startTime: time.Now(),
	}
}

// HealthCheck общее состояние сервиса и датасета // v1.0
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := h.stats.Stats()
	status := "healthy"
	if stats.LoadedAt.IsZero() {
		status = "starting"
	} else if stats.Synthetic {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    formatDuration(time.Since(h.startTime)),
		"dataset": gin.H{
			"events":    stats.Events,
			"synthetic": stats.Synthetic,
			"cached":    stats.Cached,
			"reloads":   stats.Reloads,
		},
		"system": gin.H{
			"go_version":  runtime.Version(),
			"go_routines": runtime.NumGoroutine(),
			"memory":      formatBytes(m.Alloc),
		},
	})
}

// ReadinessCheck готов, когда загружен хотя бы один датасет // v1.0
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	stats := h.stats.Stats()
	ready := !stats.LoadedAt.IsZero()

	httpStatus := http.StatusOK
	if !ready {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"ready":     ready,
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// LivenessCheck проверяет жизнеспособность сервиса // v1.0
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"pid":       os.Getpid(),
	})
}

// formatBytes форматирует байты в читаемый вид // v1.0
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration форматирует duration в читаемый вид // v1.0
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
