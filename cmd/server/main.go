package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shelfmirror/inventory-service/config"
	_ "github.com/shelfmirror/inventory-service/docs"
	"github.com/shelfmirror/inventory-service/internal/catalog"
	"github.com/shelfmirror/inventory-service/internal/database"
	"github.com/shelfmirror/inventory-service/internal/handlers"
	"github.com/shelfmirror/inventory-service/internal/middleware"
	"github.com/shelfmirror/inventory-service/internal/mirror"
	"github.com/shelfmirror/inventory-service/internal/reconcile"
	"github.com/shelfmirror/inventory-service/internal/remote/ratelimit"
	"github.com/shelfmirror/inventory-service/internal/storage"
	"github.com/shelfmirror/inventory-service/internal/sweepers"
	"github.com/shelfmirror/inventory-service/internal/syncer"
	"github.com/shelfmirror/inventory-service/internal/telemetry"
)

// @title Inventory Service API
// @version 1.0
// @description Internal API for catalog mirroring, inventory browsing, and vendor shipment reconciliation.
// @BasePath /internal
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting inventory service")

	ctx := context.Background()

	telemetryCleanup, err := telemetry.Init(ctx, telemetry.GetConfigFromEnv())
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry disabled")
		telemetryCleanup = func(context.Context) error { return nil }
	}

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	store := mirror.NewStore(database.Pool())
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ensure schema")
	}

	// Runs left in_progress by a crashed process can never complete; the
	// latest-run endpoint would report a sync as running forever.
	if marked, err := store.MarkInterruptedRuns(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to mark interrupted sync runs")
	} else if marked > 0 {
		logger.Info().Int64("count", marked).Msg("Marked interrupted sync runs")
	}

	client := catalog.NewClient(catalog.Config{
		BaseURL:    cfg.Catalog.BaseURL,
		MerchantID: cfg.Catalog.MerchantID,
		Token:      cfg.Catalog.Token,
		PageSize:   cfg.Catalog.PageSize,
		Timeout:    cfg.Catalog.Timeout,
		RateLimit: ratelimit.Config{
			MaxRetries:        cfg.RateLimit.MaxRetries,
			RateLimitBackoff:  cfg.RateLimit.RateLimitBackoff,
			InterRequestDelay: cfg.RateLimit.InterRequestDelay,
			RateLimitedPause:  cfg.RateLimit.RateLimitedPause,
			InterPageDelay:    cfg.RateLimit.InterPageDelay,
		},
	}, *logger)

	orchestrator := syncer.New(client, store, *logger)
	engine := reconcile.NewEngine(store)
	sessions := reconcile.NewSessionManager()
	applier := reconcile.NewApplier(client, store, cfg.RateLimit.InterRequestDelay, cfg.RateLimit.RateLimitedPause, *logger)

	var archive storage.Storage
	if cfg.Storage.Type == string(storage.StorageTypeLocal) {
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			logger.Warn().Err(err).Msg("Shipment archiving disabled")
		} else {
			archive = local
		}
	}

	sessionSweeper := sweepers.NewSessionSweeper(sessions, logger, 10*time.Minute, 24*time.Hour)
	go sessionSweeper.Start(ctx)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	handlers.RegisterRoutes(router, handlers.Deps{
		Sync:      handlers.NewSyncHandler(orchestrator, store),
		Items:     handlers.NewItemsHandler(store),
		Tags:      handlers.NewTagsHandler(client),
		Reconcile: handlers.NewReconcileHandler(client, store, engine, sessions, applier, archive),
	}, cfg.Auth.InternalAPIKey, middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.DashboardPerSecond,
		BurstSize:         cfg.RateLimit.DashboardBurst,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	sessionSweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := telemetryCleanup(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "inventory-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
