// filename: internal/api/server/server.go
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novasec/honeydash/internal/adapter"
	"github.com/novasec/honeydash/internal/api/routes"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/common/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер локального API дашборда // v1.0
type Server struct {
	config *Config
	logger *logging.Logger
	deps   Deps
	router *gin.Engine
	server *http.Server
}

// Config конфигурация сервера // v1.0
type Config struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	Mode           string        `yaml:"mode"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`
	MetricsPath    string        `yaml:"metrics_path"`
	RateLimit      int           `yaml:"rate_limit"`
	RateWindow     time.Duration `yaml:"rate_window"`
	// TLS включает HTTPS, nil означает обычный HTTP
	TLS            *tls.Config   `yaml:"-"`
}

// Deps зависимости обработчиков
type Deps struct {
	Registry *adapter.Registry
	Dataset  routes.DatasetStore
	Limiter  ratelimit.Limiter
}

// NewServer создает новый HTTP сервер // v1.0
func NewServer(config *Config, logger *logging.Logger, deps Deps) *Server {
	switch config.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(config.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Добавляем middleware
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(logger))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(rateLimitMiddleware(deps.Limiter, logger, config.RateLimit, config.RateWindow))

	server := &Server{
		config: config,
		logger: logger,
		deps:   deps,
		router: router,
	}

	// Настраиваем роуты
	server.setupRoutes()

	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
		TLSConfig:    config.TLS,
	}

	return server
}

// setupRoutes настраивает роуты API // v1.0
func (s *Server) setupRoutes() {
	healthHandler := routes.NewHealthHandler(s.logger, s.deps.Dataset)
	datasetHandler := routes.NewDatasetHandler(s.deps.Dataset, s.logger)
	dashboardHandler := routes.NewDashboardHandler(s.deps.Registry, s.logger)

	v1 := s.router.Group("/api/v1")
	{
		// Health endpoints
		v1.GET("/health", healthHandler.HealthCheck)
		v1.GET("/health/ready", healthHandler.ReadinessCheck)
		v1.GET("/health/live", healthHandler.LivenessCheck)

		// Dataset endpoints
		v1.GET("/dataset", datasetHandler.GetDataset)
		v1.POST("/dataset/reload", datasetHandler.Reload)

		// Dashboard endpoints
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/adapters", dashboardHandler.Adapters)
			dashboard.GET("/summary", dashboardHandler.Summary)
			dashboard.GET("/timeline", dashboardHandler.Timeline)
			dashboard.GET("/events", dashboardHandler.Events)
			dashboard.GET("/map", dashboardHandler.MapPoints)
			dashboard.GET("/threat-intel", dashboardHandler.ThreatIntel)

			top := dashboard.Group("/top")
			{
				top.GET("/ports", dashboardHandler.TopPorts)
				top.GET("/ips", dashboardHandler.TopIPs)
				top.GET("/event-types", dashboardHandler.EventTypes)
				top.GET("/countries", dashboardHandler.TopCountries)
				top.GET("/ssh-usernames", dashboardHandler.TopSSHUsernames)
				top.GET("/ssh-passwords", dashboardHandler.TopSSHPasswords)
			}
		}
	}

	if s.config.MetricsEnabled {
		path := s.config.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.router.GET(path, gin.WrapH(promhttp.Handler()))
	}

	// Root endpoint
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   "honeydash",
			"status":    "running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"endpoints": gin.H{
				"health":    "/api/v1/health",
				"dataset":   "/api/v1/dataset",
				"dashboard": "/api/v1/dashboard",
			},
		})
	})

	// 404 handler
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "NOT_FOUND",
			"message":   fmt.Sprintf("Method %s %s not found", c.Request.Method, c.Request.URL.Path),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// Start запускает HTTP сервер // v1.0
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"host": s.config.Host,
		"port": s.config.Port,
		"tls":  s.config.TLS != nil,
	}).Info("Starting dashboard API server")

	var err error
	if s.config.TLS != nil {
		// Сертификаты уже загружены в TLSConfig
		err = s.server.ListenAndServeTLS("", "")
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop останавливает HTTP сервер // v1.0
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping dashboard API server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// GetRouter возвращает роутер для тестирования // v1.0
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// GetServerInfo возвращает информацию о сервере // v1.0
func (s *Server) GetServerInfo() map[string]interface{} {
	return map[string]interface{}{
		"host":          s.config.Host,
		"port":          s.config.Port,
		"read_timeout":  s.config.ReadTimeout.String(),
		"write_timeout": s.config.WriteTimeout.String(),
		"idle_timeout":  s.config.IdleTimeout.String(),
		"mode":          gin.Mode(),
		"tls":           s.config.TLS != nil,
		"adapters":      s.deps.Registry.Names(),
	}
}
