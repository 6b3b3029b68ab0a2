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

	auditapp "github.com/tms/backend/internal/application/audit"
	billingapp "github.com/tms/backend/internal/application/billing"
	eventapp "github.com/tms/backend/internal/application/event"
	identityapp "github.com/tms/backend/internal/application/identity"
	orderapp "github.com/tms/backend/internal/application/order"
	partnerapp "github.com/tms/backend/internal/application/partner"
	pricingapp "github.com/tms/backend/internal/application/pricing"
	refdataapp "github.com/tms/backend/internal/application/refdata"
	shipmentapp "github.com/tms/backend/internal/application/shipment"
	tourapp "github.com/tms/backend/internal/application/tour"
	"github.com/tms/backend/internal/domain/tour"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/cache"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/event"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/infrastructure/persistence"
	"github.com/tms/backend/internal/infrastructure/scheduler"
	"github.com/tms/backend/internal/infrastructure/storage"
	"github.com/tms/backend/internal/infrastructure/telemetry"
	"github.com/tms/backend/internal/interfaces/http/handler"
	"github.com/tms/backend/internal/interfaces/http/middleware"
	"github.com/tms/backend/internal/interfaces/http/router"
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

	log.Info("Starting TMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize telemetry providers (no-ops when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database query tracing (if enabled)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingPlugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracingPlugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to install database tracing plugin", zap.Error(err))
		}
	}

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	carrierInvoiceRepo := persistence.NewGormCarrierInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	pricingRuleRepo := persistence.NewGormPricingRuleRepository(db.DB)
	tourRepo := persistence.NewGormTourRepository(db.DB)
	entryRepo := persistence.NewGormEntryRepository(db.DB)
	auditLogRepo := persistence.NewGormAuditLogRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// The audit recorder turns every domain event into an audit trail entry.
	// It is wrapped with idempotency so outbox redeliveries do not produce
	// duplicate trail entries.
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	auditRecorder := auditapp.NewRecorder(auditLogRepo, log)
	eventBus.Subscribe(event.NewIdempotentHandler(auditRecorder, idempotencyStore, log))

	// Business metrics: counters fed from domain events, gauges collected
	// periodically from the database
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("tms-backend/business"),
			Logger:        log,
			FleetProvider: telemetry.NewGormFleetMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		eventBus.Subscribe(telemetry.NewBusinessEventRecorder(businessMetrics))
		businessMetrics.StartPeriodicCollection(context.Background(),
			telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
		defer businessMetrics.Stop()
	}

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor republishes events persisted by transactional writers
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", outboxProcessorConfig.BatchSize),
		zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
	)

	// Document storage: S3-compatible when credentials are configured,
	// otherwise a stub that keeps the API functional without presigned URLs
	var objectStorage shipmentapp.ObjectStorage
	if cfg.Storage.AccessKeyID != "" || cfg.Storage.Endpoint != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("S3 object storage initialized",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("region", cfg.Storage.Region),
		)
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("No object storage configured, document URLs are stubbed")
	}

	// Token infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis token blacklist unavailable, falling back to in-memory", zap.Error(err))
			tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			tokenBlacklist = redisBlacklist
		}
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, roleRepo, tenantRepo, jwtService, tokenBlacklist,
		identityapp.AuthServiceConfig{
			MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
			LockDuration:     cfg.Auth.LockDuration,
		}, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, roleRepo, log)
	partnerService := partnerapp.NewPartnerService(partnerRepo, eventBus, log)
	orderService := orderapp.NewOrderService(orderRepo, shipmentRepo, eventBus, log)
	shipmentService := shipmentapp.NewShipmentService(shipmentRepo, orderRepo, eventBus, log)
	documentService := shipmentapp.NewDocumentService(shipmentRepo, objectStorage, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, eventBus, log)
	carrierInvoiceService := billingapp.NewCarrierInvoiceService(carrierInvoiceRepo, eventBus, log)
	paymentService := billingapp.NewPaymentService(paymentRepo, invoiceRepo, carrierInvoiceRepo, bankAccountRepo, eventBus, log)
	contractService := pricingapp.NewContractService(contractRepo, eventBus, log)
	ruleService := pricingapp.NewRuleService(pricingRuleRepo, log)
	quoteService := pricingapp.NewQuoteService(contractRepo, pricingRuleRepo, log)
	tourService := tourapp.NewTourService(tourRepo, tour.NewNearestNeighborOptimizer(), eventBus, log)
	entryService := refdataapp.NewEntryService(entryRepo, eventBus, log)
	auditService := auditapp.NewAuditService(auditLogRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Maintenance scheduler: daily sweep that expires contracts past their
	// validity window
	if cfg.Scheduler.Enabled {
		tenantProvider := scheduler.NewGormTenantProvider(db.DB)
		expiryExecutor := scheduler.NewContractExpiryExecutor(contractRepo, tenantProvider, eventBus, log)
		maintenanceScheduler := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, expiryExecutor, log)
		if err := maintenanceScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()

		sweepTrigger := scheduler.NewSweepTrigger(scheduler.SweepTriggerConfig{
			DailySweepHour:   cfg.Scheduler.DailySweepHour,
			DailySweepMinute: cfg.Scheduler.DailySweepMinute,
			CheckInterval:    cfg.Scheduler.SweepCheckInterval,
		}, maintenanceScheduler, tenantProvider, log)
		if err := sweepTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweep trigger", zap.Error(err))
		}
		defer func() {
			if err := sweepTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping sweep trigger", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		User:           handler.NewUserHandler(userService),
		Role:           handler.NewRoleHandler(roleService),
		Tenant:         handler.NewTenantHandler(tenantService),
		Partner:        handler.NewPartnerHandler(partnerService),
		Order:          handler.NewOrderHandler(orderService),
		Shipment:       handler.NewShipmentHandler(shipmentService, documentService),
		Invoice:        handler.NewInvoiceHandler(invoiceService),
		CarrierInvoice: handler.NewCarrierInvoiceHandler(carrierInvoiceService),
		Payment:        handler.NewPaymentHandler(paymentService),
		Contract:       handler.NewContractHandler(contractService),
		PricingRule:    handler.NewPricingRuleHandler(ruleService, quoteService),
		Tour:           handler.NewTourHandler(tourService),
		Refdata:        handler.NewRefdataHandler(entryService),
		Audit:          handler.NewAuditHandler(auditService),
		Outbox:         handler.NewOutboxHandler(outboxService),
	}
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing/Metrics - Observability (if enabled)
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Stricter rate limiting on the credential endpoints
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRateLimit := middleware.AuthRateLimit(authLimiter)
		engine.Use(func(c *gin.Context) {
			switch c.Request.URL.Path {
			case "/api/v1/auth/login", "/api/v1/auth/refresh",
				"/api/v1/auth/register", "/api/v1/auth/forgot-password", "/api/v1/auth/reset-password":
				authRateLimit(c)
			default:
				c.Next()
			}
		})
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}

	// Liveness and readiness endpoints (outside API versioning, no auth)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for all API routes except the public auth endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		AccessResolver: authService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/refresh",
			"/api/v1/auth/forgot-password",
			"/api/v1/auth/reset-password",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Tenant scope comes from the JWT only; the X-Tenant-ID header is not
	// trusted as a tenant source
	r.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		JWTEnabled: true,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/refresh",
			"/api/v1/auth/forgot-password",
			"/api/v1/auth/reset-password",
		},
		Required: true,
		Logger:   log,
	}))

	router.RegisterAll(r, handlers)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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
