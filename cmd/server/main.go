package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/adboard/backend/internal/application/billing"
	"github.com/adboard/backend/internal/domain/collection"
	"github.com/adboard/backend/internal/domain/contract"
	"github.com/adboard/backend/internal/domain/shared/strategy"
	"github.com/adboard/backend/internal/infrastructure/cache"
	"github.com/adboard/backend/internal/infrastructure/config"
	"github.com/adboard/backend/internal/infrastructure/logger"
	"github.com/adboard/backend/internal/infrastructure/persistence"
	strategyimpl "github.com/adboard/backend/internal/infrastructure/strategy"
	"github.com/adboard/backend/internal/infrastructure/telemetry"
	"github.com/adboard/backend/internal/interfaces/http/handler"
	"github.com/adboard/backend/internal/interfaces/http/middleware"
	"github.com/adboard/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.Telemetry.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// OpenTelemetry providers. Each is a no-op when telemetry is disabled.
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Profiling.ProfileTypes,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	log := telemetry.NewBridgedLogger(baseLog, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: lp,
		Level:          logger.ParseLevel(cfg.Log.Level),
	}))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting billing API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	loc, err := cfg.Billing.Location()
	if err != nil {
		log.Fatal("Invalid billing time zone", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = true
		dbTracing.LogFullSQL = cfg.App.Env == "development"
		if cfg.Telemetry.DBSlowQueryThresh > 0 {
			dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		}
		if err := telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	if mp.IsEnabled() {
		dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, mp.Meter("db.client"), telemetry.DBMetricsConfig{
			Enabled:            cfg.Telemetry.DBMetricsEnabled,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Warn("Database metrics disabled", zap.Error(err))
		} else if dbMetrics != nil {
			defer dbMetrics.Stop()
		}
	}
	log.Info("Database connected successfully")

	billboardRepo := persistence.NewGormBillboardRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	pricingRepo := persistence.NewGormPricingRepository(db.DB)

	metrics, err := telemetry.NewBillingMetrics(mp.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to create billing metrics", zap.Error(err))
	}

	// Pricing tables, shared through Redis when it is enabled
	cacheOpts := []cache.PricingTableCacheOption{
		cache.WithTTL(cfg.Billing.PricingCacheTTL),
		cache.WithLogger(log),
		cache.WithMetrics(metrics),
	}
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, pricing tables are cached per instance", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			cacheOpts = append(cacheOpts, cache.WithStore(cache.NewRedisPricingStore(client, cache.WithStoreLogger(log))))
		}
	}
	tables := cache.NewPricingTableCache(pricingRepo, cacheOpts...)
	if err := tables.Ensure(ctx); err != nil {
		log.Warn("Initial pricing table load failed, retrying on first request", zap.Error(err))
	}

	registry, err := strategyimpl.NewRegistryWithDefaults(tables.MonthlySource(), tables.DailySource())
	if err != nil {
		log.Fatal("Failed to build strategy registry", zap.Error(err))
	}

	classifier := contract.NewClassifier(loc, cfg.Billing.ExpiringSoonDays)
	reconciler := collection.NewReconciler(
		collection.WithLocation(loc),
		collection.WithAllocationStrategy(registry.GetAllocationStrategyOrDefault(registry.GetDefault(strategy.StrategyTypeAllocation))),
	)

	pricingService := billing.NewPricingService(billboardRepo, contractRepo, pricingRepo, tables, registry.Resolver(),
		billing.WithDefaultOperatingFeeRate(decimal.NewFromFloat(cfg.Billing.DefaultOperatingFeeRate)),
		billing.WithPricingMetrics(metrics),
	)
	collectionService := billing.NewCollectionService(contractRepo, paymentRepo, paymentRepo, reconciler, classifier,
		billing.WithFleetTopN(cfg.Billing.FleetTopN),
		billing.WithCollectionMetrics(metrics),
	)
	availabilityService := billing.NewAvailabilityService(billboardRepo, contractRepo, classifier, nil)

	// HTTP
	gin.SetMode(ginMode(cfg.App.Env))
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSOrigins
	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	tracingCfg.Enabled = cfg.Telemetry.Enabled

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(tracingCfg),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(mp.Meter(telemetry.TracerName), log),
		middleware.Secure(),
		middleware.CORS(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterBilling(engine, r, router.Handlers{
		Pricing:    handler.NewPricingHandler(pricingService),
		Collection: handler.NewCollectionHandler(collectionService),
		Billboard:  handler.NewBillboardHandler(availabilityService),
		System: handler.NewSystemHandler(
			handler.WithVersion(cfg.App.Name, version),
			handler.WithDatabase(db),
			handler.WithCacheStats(tables),
			handler.WithStrategies(registry),
		),
	})
	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler shutdown failed", zap.Error(err))
	}
	shutdownTelemetry(shutdownCtx, log, tp, mp, lp)

	log.Info("Server exited gracefully")
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownTelemetry flushes the providers; the logger provider goes last so
// shutdown logs are still exported
func shutdownTelemetry(ctx context.Context, log *zap.Logger, providers ...shutdowner) {
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}
}

func ginMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

var (
	_ handler.PricingService      = (*billing.PricingService)(nil)
	_ handler.CollectionService   = (*billing.CollectionService)(nil)
	_ handler.AvailabilityService = (*billing.AvailabilityService)(nil)
)
