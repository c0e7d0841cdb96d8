// filename: cmd/honeyd/main.go
// Honeydash API Service - Entry Point

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/novasec/honeydash/internal/adapter"
	"github.com/novasec/honeydash/internal/api/server"
	"github.com/novasec/honeydash/internal/common/config"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/common/ratelimit"
	dashtls "github.com/novasec/honeydash/internal/common/tls"
	"github.com/novasec/honeydash/internal/normalizer"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	// Initialize logger
	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		panic(err)
	}
	logger.WithField("data_dir", cfg.Data.Dir).Info("Starting Honeydash API Service")

	// Dataset service
	datasetService := normalizer.NewService(cfg, logger)

	registry := adapter.NewRegistry()
	registry.Register(adapter.NewLocalAdapter(datasetService.Store(), logger))
	if _, err := registry.Lookup(cfg.Data.Adapter); err != nil {
		logger.WithError(err).WithField("adapter", cfg.Data.Adapter).Warn("Configured adapter is not registered, using local")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rate limiter
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.Timeout,
			ReadTimeout:  cfg.Redis.Timeout,
			WriteTimeout: cfg.Redis.Timeout,
		})
		redisLimiter, err := ratelimit.NewRedisLimiter(ctx, client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, rate limiting disabled")
			_ = client.Close()
		} else {
			limiter = redisLimiter
			defer redisLimiter.Close()
		}
	}

	serverConfig := &server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		Mode:           cfg.Server.Mode,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		RateLimit:      cfg.RateLimit.Requests,
		RateWindow:     cfg.RateLimit.Window,
	}

	// HTTPS
	if cfg.Server.TLS.Enabled {
		tlsFiles := dashtls.Config{
			CertFile:   cfg.Server.TLS.CertFile,
			KeyFile:    cfg.Server.TLS.KeyFile,
			MinVersion: cfg.Server.TLS.MinVersion,
		}
		if cfg.Server.TLS.SelfSigned {
			created, err := dashtls.EnsureSelfSigned(tlsFiles, cfg.Server.Host)
			if err != nil {
				logger.WithError(err).Fatal("Failed to generate self-signed certificate")
			}
			if created {
				info, _ := dashtls.CertificateInfo(tlsFiles.CertFile)
				logger.WithFields(info).Warn("Generated self-signed certificate")
			}
		}
		tlsConfig, err := dashtls.ServerConfig(tlsFiles)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load TLS configuration")
		}
		serverConfig.TLS = tlsConfig
	}

	apiServer := server.NewServer(serverConfig, logger, server.Deps{
		Registry: registry,
		Dataset:  datasetService.Store(),
		Limiter:  limiter,
	})

	// Start services
	go func() {
		if err := datasetService.Start(ctx); err != nil {
			logger.WithError(err).Error("Dataset service error")
			cancel()
		}
	}()

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.WithError(err).Error("API server error")
			cancel()
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	logger.Info("Shutting down Honeydash API Service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("API server shutdown failed")
	}

	cancel()
	datasetService.Stop()
}
