// filename: internal/api/server/middleware.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/common/metrics"
	"github.com/novasec/honeydash/internal/common/ratelimit"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// requestIDKey ключ идентификатора запроса в gin.Context
const requestIDKey = "request_id"

// requestIDMiddleware пробрасывает X-Request-ID или генерирует новый // v1.0
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware добавляет логирование запросов // v1.0
func loggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithRequest(c.Request.Method, c.Request.URL.Path, c.ClientIP()).
			WithFields(map[string]interface{}{
				"status":      c.Writer.Status(),
				"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
				"request_id":  c.GetString(requestIDKey),
				"user_agent":  c.Request.UserAgent(),
			})

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.WithField("errors", c.Errors.String()).Error("HTTP request")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("HTTP request")
		default:
			entry.Debug("HTTP request")
		}
	}
}

// metricsMiddleware считает запросы и их длительность по шаблону маршрута // v1.0
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// corsMiddleware добавляет CORS заголовки // v1.0
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// rateLimitMiddleware ограничивает запросы по IP клиента. При недоступном
// хранилище лимитов запрос пропускается. // v1.0
func rateLimitMiddleware(limiter ratelimit.Limiter, logger *logging.Logger, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimited.Inc()
			rlErr := errors.RateLimitError(strconv.Itoa(limit), window.String())
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(rlErr.StatusCode, gin.H{
				"error":   string(rlErr.Code),
				"message": rlErr.Message,
			})
			return
		}

		c.Next()
	}
}
