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

	businessapp "github.com/bizfin/backend/internal/application/business"
	dailyapp "github.com/bizfin/backend/internal/application/daily"
	goalsapp "github.com/bizfin/backend/internal/application/goals"
	identityapp "github.com/bizfin/backend/internal/application/identity"
	ledgerapp "github.com/bizfin/backend/internal/application/ledger"
	uploadapp "github.com/bizfin/backend/internal/application/upload"
	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/bizfin/backend/internal/infrastructure/auth"
	"github.com/bizfin/backend/internal/infrastructure/cache"
	"github.com/bizfin/backend/internal/infrastructure/config"
	"github.com/bizfin/backend/internal/infrastructure/event"
	"github.com/bizfin/backend/internal/infrastructure/logger"
	"github.com/bizfin/backend/internal/infrastructure/persistence"
	"github.com/bizfin/backend/internal/infrastructure/storage"
	"github.com/bizfin/backend/internal/interfaces/http/handler"
	"github.com/bizfin/backend/internal/interfaces/http/middleware"
	"github.com/bizfin/backend/internal/interfaces/http/router"
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting BizFin Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Redis backs the token blacklist and cross-instance change
	// notifications. The server still runs without it, degraded to
	// in-process equivalents.
	var (
		blacklist      auth.TokenBlacklist
		changeNotifier shared.ChangeNotifier
	)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist and change notifier", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
		changeNotifier = cache.NewInMemoryChangeNotifier()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		changeNotifier = cache.NewRedisChangeNotifier(redisClient,
			cache.WithChangeChannel(cfg.Realtime.Channel),
			cache.WithChangeLogger(log),
		)
		log.Info("Redis connected successfully")
	}
	defer func() {
		if err := changeNotifier.Close(); err != nil {
			log.Error("Error closing change notifier", zap.Error(err))
		}
	}()

	// Repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	businessRepo := persistence.NewGormBusinessRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	goalRepo := persistence.NewGormGoalRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	entryRepo := persistence.NewGormDailyEntryRepository(db.DB)
	incomeSourceRepo := persistence.NewGormIncomeSourceRepository(db.DB)
	managedProductRepo := persistence.NewGormManagedProductRepository(db.DB)

	// Event bus for in-process domain events
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(profileRepo, jwtService, blacklist, eventBus,
		identityapp.AuthServiceConfig{
			MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
			LockDuration:     cfg.Auth.LockDuration,
		}, log)
	profileService := identityapp.NewProfileService(profileRepo, eventBus, log)
	businessService := businessapp.NewBusinessService(businessRepo, scheduleRepo, eventBus, changeNotifier, log)
	goalService := goalsapp.NewGoalService(goalRepo, eventBus, changeNotifier, log)
	dashboardService := goalsapp.NewDashboardService(goalRepo, scheduleRepo, entryRepo, paymentRepo, log)
	supplierService := ledgerapp.NewSupplierService(supplierRepo, eventBus, changeNotifier, log)
	invoiceService := ledgerapp.NewInvoiceService(invoiceRepo, supplierRepo, businessRepo, eventBus, changeNotifier, log)
	paymentService := ledgerapp.NewPaymentService(paymentRepo, supplierRepo, invoiceRepo, eventBus, changeNotifier, log)
	forecastService := ledgerapp.NewForecastService(paymentRepo, log)
	entryService := dailyapp.NewEntryService(entryRepo, incomeSourceRepo, managedProductRepo, eventBus, changeNotifier, log)
	catalogService := dailyapp.NewCatalogService(incomeSourceRepo, managedProductRepo, eventBus, changeNotifier, log)

	// Object storage for invoice document uploads. Without credentials
	// the stub keeps upload endpoints functional for local development.
	var objectStorage uploadapp.ObjectStorageService
	if cfg.Storage.Bucket != "" && cfg.Storage.AccessKeyID != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage credentials missing, using stub storage")
	}
	uploadService := uploadapp.NewUploadService(objectStorage, cfg.Storage.PresignExpiry, cfg.Storage.MaxUploadSize, log)

	systemHandler := handler.NewSystemHandler(db)
	if redisClient != nil {
		systemHandler.AddReadyCheck("redis", handler.PingerFunc(func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx).Err()
		}))
	}

	// HTTP handlers
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService, profileService),
		Business: handler.NewBusinessHandler(businessService),
		Goal:     handler.NewGoalHandler(goalService, dashboardService),
		Supplier: handler.NewSupplierHandler(supplierService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Payment:  handler.NewPaymentHandler(paymentService, forecastService),
		Daily:    handler.NewDailyHandler(entryService, catalogService),
		Upload:   handler.NewUploadHandler(uploadService),
		System:   systemHandler,
	}

	if cfg.Realtime.Enabled {
		changesHandler := handler.NewChangesHandler(changeNotifier,
			handler.WithChangesLogger(log),
			handler.WithChangesHeartbeat(cfg.Realtime.HeartbeatInterval),
			handler.WithChangesBuffer(cfg.Realtime.ClientBuffer),
		)
		if err := changesHandler.Start(); err != nil {
			log.Fatal("Failed to start change stream handler", zap.Error(err))
		}
		defer changesHandler.Stop()
		handlers.Changes = changesHandler
	}

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

	// Middleware order: request ID, recovery, logging, CORS, body
	// limit, then rate limiting
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	routerCfg := router.Config{
		Handlers:     handlers,
		JWTService:   jwtService,
		Blacklist:    blacklist,
		BusinessRepo: businessRepo,
		Logger:       log,
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		routerCfg.AuthLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}
	router.Setup(engine, routerCfg)

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

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
