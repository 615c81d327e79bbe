// Package main provides the API server entry point for the asset disposition
// modeling service.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asset-disposition/internal/api"
	"github.com/asset-disposition/internal/config"
	"github.com/asset-disposition/internal/engine"
	"github.com/asset-disposition/internal/logging"
	"github.com/asset-disposition/internal/service"
	"github.com/asset-disposition/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Initialize database connections
	logger.Info("Connecting to databases...")

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Initialize repositories
	assetRepo := storage.NewAssetRepository(postgres)
	assumptionRepo := storage.NewAssumptionRepository(postgres)
	valuationRepo := storage.NewValuationRepository(postgres)

	// Initialize the cached reference-data layer
	cacheService := storage.NewCacheService(redis, cfg.Cache.TTL)
	referenceCache := storage.NewReferenceCache(cacheService, assumptionRepo)

	// Initialize services
	logger.Info("Initializing services...")

	modelEngine := engine.New(cfg.Engine)
	modelService := service.NewModelService(
		assetRepo,
		assumptionRepo,
		referenceCache,
		valuationRepo,
		modelEngine,
		cfg.Batch.Workers,
		cfg.Batch.LookupTimeout,
	)

	logger.Info("Services initialized")

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		FreeTierRPS:     cfg.RateLimit.FreeTier,
		PaidTierRPS:     cfg.RateLimit.PaidTier,
	}

	server := api.NewServer(serverConfig, modelService)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
