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

	stocksyncapp "github.com/stocksync/backend/internal/application/stocksync"
	"github.com/stocksync/backend/internal/domain/stocksync"
	"github.com/stocksync/backend/internal/infrastructure/cache"
	"github.com/stocksync/backend/internal/infrastructure/config"
	"github.com/stocksync/backend/internal/infrastructure/erp"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"github.com/stocksync/backend/internal/infrastructure/persistence"
	"github.com/stocksync/backend/internal/infrastructure/scheduler"
	"github.com/stocksync/backend/internal/infrastructure/storefront"
	"github.com/stocksync/backend/internal/interfaces/http/handler"
	"github.com/stocksync/backend/internal/interfaces/http/middleware"
	"github.com/stocksync/backend/internal/interfaces/http/router"
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

	log.Info("Starting StockSync Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with zap-backed GORM logging
	db, err := persistence.NewDatabaseWithZap(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	siteRepo := persistence.NewGormSiteRepository(db.DB)
	filterRepo := persistence.NewGormSiteFilterRepository(db.DB)
	batchRepo := persistence.NewGormSyncBatchRepository(db.DB)

	// Initialize ERP client
	erpConfig := erp.NewConfig(
		cfg.ERP.BaseURL,
		cfg.ERP.EngineCode,
		cfg.ERP.EngineSecret,
		cfg.ERP.InventorySchemaCode,
		cfg.ERP.MappingSchemaCode,
	)
	erpConfig.PageSize = cfg.ERP.PageSize
	erpConfig.PageDelay = cfg.ERP.PageDelay
	erpConfig.MaxRetries = cfg.ERP.MaxRetries
	erpConfig.RetryDelay = cfg.ERP.RetryDelay
	erpConfig.TimeoutSeconds = cfg.ERP.TimeoutSeconds

	erpClient, err := erp.NewClient(erpConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize ERP client", zap.Error(err))
	}

	// Initialize storefront gateway
	wooClient := storefront.NewWooClient(cfg.Sync.StorefrontTimeout)

	// Initialize product cache. Redis keeps product identities across
	// restarts; the in-memory cache covers single-instance deployments.
	var productCache stocksync.ProductCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisProductCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		productCache = redisCache
		log.Info("Redis product cache enabled")
	} else {
		productCache = cache.NewInMemoryProductCache()
		log.Info("In-memory product cache enabled")
	}

	// Initialize services
	guard := stocksync.NewRunGuard()
	syncService := stocksyncapp.NewSyncService(
		erpClient,
		wooClient,
		siteRepo,
		filterRepo,
		batchRepo,
		productCache,
		guard,
		stocksyncapp.ServiceOptions{
			SiteConcurrency: cfg.Sync.SiteConcurrency,
			SKUWorkers:      cfg.Sync.SKUWorkers,
			DetailsCap:      cfg.Sync.DetailsCap,
			PassTimeout:     cfg.Sync.PassTimeout,
		},
		log,
	)
	siteService := stocksyncapp.NewSiteService(siteRepo, filterRepo)
	batchService := stocksyncapp.NewBatchService(batchRepo)

	// Initialize handlers
	siteHandler := handler.NewSiteHandler(siteService)
	syncHandler := handler.NewSyncHandler(syncService, batchService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	siteRoutes := router.NewDomainGroup("sites", "/sites")
	siteHandler.RegisterRoutes(siteRoutes)
	r.Register(siteRoutes)

	syncRoutes := router.NewDomainGroup("sync", "/sync")
	syncHandler.RegisterRoutes(syncRoutes)
	r.Register(syncRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemHandler.RegisterRoutes(systemRoutes)
	r.Register(systemRoutes)

	r.Setup()

	// Start the interval scheduler
	passScheduler, err := scheduler.NewPassScheduler(scheduler.PassSchedulerConfig{
		Enabled:  cfg.Sync.Interval > 0,
		Interval: cfg.Sync.Interval,
	}, syncService, log)
	if err != nil {
		log.Fatal("Failed to initialize scheduler", zap.Error(err))
	}
	if err := passScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := passScheduler.Stop(ctx); err != nil {
		log.Error("Scheduler forced to stop", zap.Error(err))
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
