package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsync "github.com/bookpress/backend/internal/application/sync"
	"github.com/bookpress/backend/internal/infrastructure/config"
	"github.com/bookpress/backend/internal/infrastructure/imagecheck"
	"github.com/bookpress/backend/internal/infrastructure/logger"
	"github.com/bookpress/backend/internal/infrastructure/marketplace"
	"github.com/bookpress/backend/internal/infrastructure/persistence"
	"github.com/bookpress/backend/internal/infrastructure/scheduler"
	"github.com/bookpress/backend/internal/interfaces/http/handler"
	"github.com/bookpress/backend/internal/interfaces/http/middleware"
	"github.com/bookpress/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting BookPress backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := persistence.Migrate(db.DB); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected and migrated")

	// Repositories
	bookRepo := persistence.NewBookRepository(db.DB)
	authorRepo := persistence.NewAuthorRepository(db.DB)
	orderRepo := persistence.NewOrderRepository(db.DB)
	uploadRepo := persistence.NewUploadLogRepository(db.DB)

	// Marketplace connectors
	flipkart := marketplace.NewFlipkartSource(cfg.Flipkart, log)
	registry := marketplace.NewRegistry(
		marketplace.NewWooCommerceClient(cfg.WooCommerce, log),
		marketplace.NewAmazonClient(cfg.Amazon, log),
		flipkart,
	)

	// Reconciliation services
	bookSync := appsync.NewBookSyncService(bookRepo, authorRepo, log)
	orderSync := appsync.NewOrderSyncService(orderRepo, log)
	imageRepair := appsync.NewImageRepairService(
		bookRepo,
		imagecheck.NewHeadProber(cfg.Sync.ImageProbeTimeout),
		log,
	)
	orchestrator := appsync.NewSourceSyncService(registry, bookSync, orderSync, imageRepair, appsync.SourceSyncConfig{
		PageSize:      cfg.Sync.PageSize,
		MaxPages:      cfg.Sync.MaxPages,
		OrderStatuses: cfg.Sync.OrderStatuses,
	}, log)
	ingest := appsync.NewFlipkartIngestService(flipkart, bookSync, orderSync, uploadRepo, log)

	// Background sync trigger
	trigger, err := scheduler.NewSyncTrigger(orchestrator, imageRepair, scheduler.TriggerConfig{
		Enabled:            cfg.Sync.Enabled,
		RunAtStartup:       cfg.Sync.RunAtStartup,
		SyncInterval:       cfg.Sync.Interval,
		ImageSweepInterval: cfg.Sync.ImageInterval,
		JobTimeout:         cfg.Sync.JobTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to create sync trigger", zap.Error(err))
	}
	if err := trigger.Start(context.Background()); err != nil {
		log.Fatal("Failed to start sync trigger", zap.Error(err))
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxUploadBytes),
	)

	router.NewRouter(engine).
		Register(handler.NewBookHandler(bookRepo)).
		Register(handler.NewOrderHandler(orderRepo)).
		Register(handler.NewDashboardHandler(bookRepo, authorRepo, orderRepo)).
		Register(handler.NewSyncHandler(trigger, orchestrator)).
		Register(handler.NewUploadHandler(ingest, uploadRepo)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := trigger.Stop(shutdownCtx); err != nil {
		log.Error("Sync trigger shutdown error", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	log.Info("Shutdown complete")
}
