package router

import (
	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/infrastructure/logger"
	"github.com/erp/billing/internal/infrastructure/telemetry"
	"github.com/erp/billing/internal/interfaces/http/handler"
	"github.com/erp/billing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handlers groups the resource handlers served by the billing API
type Handlers struct {
	Health         *handler.HealthHandler
	InventoryItems *handler.InventoryItemHandler
	Customers      *handler.CustomerHandler
	SalesOrders    *handler.SalesOrderHandler
	Invoices       *handler.InvoiceHandler
}

// EngineConfig carries the cross-cutting settings of the HTTP stack
type EngineConfig struct {
	ServiceName    string
	Logger         *zap.Logger
	TrustedProxies []string
	CORSOrigins    []string
	MaxBodySize    int64

	Tracing        bool
	TracerProvider trace.TracerProvider
	MeterProvider  *telemetry.MeterProvider

	IdempotencyStore  shared.IdempotencyStore
	IdempotencyConfig shared.IdempotencyConfig
}

// NewEngine builds the gin engine with the middleware chain and every
// billing route registered under /api/v1.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, err
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName:    cfg.ServiceName,
		Enabled:        cfg.Tracing,
		TracerProvider: cfg.TracerProvider,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(cfg.MeterProvider, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}

	idempotent := middleware.Idempotency(cfg.IdempotencyStore, cfg.IdempotencyConfig, log)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(
			inventoryRoutes(h.InventoryItems, idempotent),
			customerRoutes(h.Customers, idempotent),
			salesOrderRoutes(h.SalesOrders, idempotent),
			invoiceRoutes(h.Invoices, idempotent),
		).
		Setup()

	return engine, nil
}

func inventoryRoutes(h *handler.InventoryItemHandler, idempotent gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("/inventory-items")
	g.POST("", idempotent, h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return g
}

func customerRoutes(h *handler.CustomerHandler, idempotent gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("/customers")
	g.POST("", idempotent, h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	return g
}

func salesOrderRoutes(h *handler.SalesOrderHandler, idempotent gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("/sales-orders")
	g.POST("", idempotent, h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PATCH("/:id/status/:status", h.Transition)
	return g
}

func invoiceRoutes(h *handler.InvoiceHandler, idempotent gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("/invoices")
	g.POST("", idempotent, h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PATCH("/:id/status/:status", h.Transition)
	return g
}
