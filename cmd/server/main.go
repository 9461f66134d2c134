package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stocksense/backend-go/internal/api"
	"github.com/stocksense/backend-go/internal/cache"
	"github.com/stocksense/backend-go/internal/config"
	"github.com/stocksense/backend-go/internal/repository/postgres"
	"github.com/stocksense/backend-go/internal/service"
	"github.com/stocksense/backend-go/internal/storage"
	"github.com/stocksense/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	catalogRepo := postgres.NewCatalogRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	// Initialize forecast cache; a disabled or unreachable Redis falls
	// back to a noop cache rather than blocking startup.
	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, running without cache")
		forecastCache = cache.NewNoopForecastCache()
	}

	// Initialize report archival when configured
	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		archive, err = storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize report archive storage")
		}
	}

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, ledgerRepo)
	consumptionService := service.NewConsumptionService(catalogRepo, ledgerRepo, forecastCache)
	forecastService := service.NewForecastService(
		catalogRepo, ledgerRepo, eventRepo, settingsRepo, forecastCache,
		cfg.Forecast.DefaultLeadTimeDays, cfg.Forecast.DefaultLowStockBufferDays,
	)
	advisorService := service.NewAdvisorService(forecastService)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		Catalog:     catalogService,
		Consumption: consumptionService,
		Forecast:    forecastService,
		Advisor:     advisorService,
		Archive:     archive,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
