// Package router assembles the gin engine of the receivables API.
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/printpay/receivables/docs"
	"github.com/printpay/receivables/internal/infrastructure/logger"
	"github.com/printpay/receivables/internal/interfaces/http/dto"
	"github.com/printpay/receivables/internal/interfaces/http/handler"
	"github.com/printpay/receivables/internal/interfaces/http/middleware"
)

// RouteRegistrar registers routes on an API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be mounted by Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registrar on the versioned API group
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one resource
type DomainGroup struct {
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a group mounted at prefix
func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers...)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers...)
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

// Handlers are the resource handlers served by the API
type Handlers struct {
	Customers *handler.CustomerHandler
	Invoices  *handler.InvoiceHandler
	Payments  *handler.PaymentHandler
	FollowUps *handler.FollowUpHandler
	Analytics *handler.AnalyticsHandler
}

// Config holds the cross-cutting settings of the engine
type Config struct {
	Logger      *zap.Logger
	Tracing     middleware.TracingConfig
	CORS        middleware.CORSConfig
	MaxBodySize int64
	// Metrics is an optional HTTP metrics middleware
	Metrics gin.HandlerFunc
	// DefaultTenant serves requests without X-Tenant-ID; uuid.Nil makes
	// the header mandatory.
	DefaultTenant uuid.UUID
	// Ready reports whether dependencies (the database) are reachable
	Ready func(ctx context.Context) error
	// Swagger controls the /swagger documentation routes
	Swagger middleware.SwaggerConfig
}

// New builds the gin engine with middleware, health checks and all
// receivables routes under /api/v1.
func New(cfg Config, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(cfg.Tracing),
		middleware.SecureHeaders(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics)
	}
	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.DefaultTenant = cfg.DefaultTenant
	tenantCfg.SkipPaths = append(tenantCfg.SkipPaths, "/swagger")
	engine.Use(middleware.Tenant(tenantCfg), middleware.SpanAttributes())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
	engine.GET("/ready", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("ERR_NOT_READY", err.Error(), middleware.RequestIDFrom(c)))
				return
			}
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ready"}))
	})
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found", middleware.RequestIDFrom(c)))
	})

	r := NewRouter(engine)
	for _, g := range domainGroups(h) {
		r.Register(g)
	}
	r.Setup()
	return engine
}

func domainGroups(h Handlers) []*DomainGroup {
	customers := NewDomainGroup("/customers").
		POST("", h.Customers.Create).
		GET("", h.Customers.List).
		GET("/:id", h.Customers.Get).
		PUT("/:id", h.Customers.Update).
		DELETE("/:id", h.Customers.Delete).
		GET("/:id/follow-ups", h.Customers.FollowUps).
		GET("/:id/risk", h.Customers.Risk)

	invoices := NewDomainGroup("/invoices").
		POST("", h.Invoices.Create).
		GET("", h.Invoices.List).
		GET("/:id", h.Invoices.Get).
		DELETE("/:id", h.Invoices.Delete)

	payments := NewDomainGroup("/payments").
		POST("", h.Payments.Record).
		POST("/:id/clear", h.Payments.ClearCheque).
		POST("/:id/bounce", h.Payments.BounceCheque)

	cheques := NewDomainGroup("/cheques").
		GET("/due", h.Payments.DuePDCs)

	followUps := NewDomainGroup("/follow-ups").
		POST("", h.FollowUps.Create).
		GET("/due", h.FollowUps.Due)

	settings := NewDomainGroup("/settings").
		GET("/reminders", h.FollowUps.GetSettings).
		PUT("/reminders", h.FollowUps.UpdateSettings)

	reminders := NewDomainGroup("/reminders").
		GET("/due", h.FollowUps.RemindersDue).
		POST("/dispatch", h.FollowUps.DispatchReminders)

	reports := NewDomainGroup("/reports").
		GET("/ageing", h.Analytics.Ageing).
		GET("/collections", h.Analytics.Collections).
		GET("/risk", h.Analytics.RiskBoard)

	overview := NewDomainGroup("").
		GET("/dashboard", h.Analytics.Dashboard).
		GET("/calendar", h.Analytics.Calendar)

	return []*DomainGroup{customers, invoices, payments, cheques, followUps, settings, reminders, reports, overview}
}
