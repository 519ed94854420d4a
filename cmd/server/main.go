package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventapp "github.com/erp/billing/internal/application/event"
	inventoryapp "github.com/erp/billing/internal/application/inventory"
	partnerapp "github.com/erp/billing/internal/application/partner"
	tradeapp "github.com/erp/billing/internal/application/trade"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/infrastructure/cache"
	"github.com/erp/billing/internal/infrastructure/config"
	"github.com/erp/billing/internal/infrastructure/event"
	"github.com/erp/billing/internal/infrastructure/logger"
	"github.com/erp/billing/internal/infrastructure/persistence"
	"github.com/erp/billing/internal/infrastructure/telemetry"
	"github.com/erp/billing/internal/interfaces/http/handler"
	"github.com/erp/billing/internal/interfaces/http/middleware"
	"github.com/erp/billing/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	collector := telemetry.Collector{
		Endpoint:       cfg.Telemetry.CollectorEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.App.Version,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
		Collector:     collector,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:        cfg.Telemetry.MetricsEnabled,
		ExportInterval: cfg.Telemetry.MetricsInterval,
		Collector:      collector,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:   cfg.Telemetry.LogsEnabled,
		Collector: collector,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log := loggerProvider.Bridge(baseLog, zapcore.InfoLevel)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting billing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	numbers := persistence.NewGormNumberAllocator(db.DB)

	// Services
	inventoryService := inventoryapp.NewInventoryItemService(itemRepo, log)
	customerService := partnerapp.NewCustomerService(customerRepo)
	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, itemRepo, customerService, numbers, log)
	invoiceService := tradeapp.NewInvoiceService(invoiceRepo, salesOrderRepo, itemRepo, customerService, numbers, log)
	invoiceService.SetPaymentTermsDays(cfg.Billing.PaymentTermsDays)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithKeyPrefix(cfg.Idempotency.KeyPrefix),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Warn("Error closing idempotency store", zap.Error(err))
		}
	}()
	idempotencyConfig := shared.IdempotencyConfig{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
	}

	// Domain events
	businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("billing"))
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}
	eventBus := event.NewInMemoryEventBus(log)
	activityHandler := eventapp.NewDocumentActivityHandler(log, businessMetrics)
	eventBus.Subscribe(event.NewIdempotentHandler(activityHandler, idempotencyStore, idempotencyConfig, log))
	salesOrderService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:       cfg.Telemetry.ServiceName,
		Logger:            log,
		TrustedProxies:    cfg.HTTP.TrustedProxies,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		MaxBodySize:       cfg.HTTP.MaxBodySize,
		Tracing:           tracerProvider.IsEnabled(),
		MeterProvider:     meterProvider,
		IdempotencyStore:  idempotencyStore,
		IdempotencyConfig: idempotencyConfig,
	}, router.Handlers{
		Health:         handler.NewHealthHandler(db, cfg.App.Version),
		InventoryItems: handler.NewInventoryItemHandler(inventoryService),
		Customers:      handler.NewCustomerHandler(customerService),
		SalesOrders:    handler.NewSalesOrderHandler(salesOrderService),
		Invoices:       handler.NewInvoiceHandler(invoiceService),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Providers flush last so shutdown logs and spans are exported
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Warn("Logger provider shutdown failed", zap.Error(err))
	}
}
