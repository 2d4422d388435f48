// Package v1 provides the HTTP API.
package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"invoicedesk/internal/domain/auth"
	"invoicedesk/internal/domain/directory"
	"invoicedesk/internal/domain/documents"
	"invoicedesk/internal/domain/navigation"
	"invoicedesk/internal/infrastructure/http/v1/dto"
	"invoicedesk/internal/infrastructure/http/v1/handlers"
	"invoicedesk/internal/infrastructure/http/v1/middleware"
	"invoicedesk/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger *logger.Logger

	Documents *documents.Service
	Auth      *auth.Service
	Navigator *navigation.Navigator

	// Directory defaults to a service over directory.UnconfiguredRepository,
	// so /api/clients always exists and fails with 500 without a database.
	Directory *directory.Service

	// Metrics is optional.
	Metrics interface {
		middleware.RequestObserver
		Handler() http.Handler
	}

	HealthChecks     map[string]handlers.HealthCheck
	CORSAllowOrigins []string
	Development      bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()

	// Global middleware (order matters: ErrorHandler must wrap Recovery so a
	// recovered panic is still rendered)
	router.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	baseHandler := handlers.NewBaseHandler()

	api := router.Group("/api")
	{
		registerDirectoryRoutes(api, baseHandler, cfg)

		authHandler := handlers.NewAuthHandler(baseHandler, cfg.Auth)
		authHandler.RegisterRoutes(api.Group("/auth"))

		protected := api.Group("")
		protected.Use(middleware.RequireAuthenticated(cfg.Auth))
		registerDocumentRoutes(protected, baseHandler, cfg)
	}

	pagesHandler := handlers.NewPagesHandler(baseHandler, cfg.Navigator)
	pagesHandler.RegisterRoutes(router)
	router.NoRoute(pagesHandler.NotFound)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = append(c.AllowHeaders, middleware.HeaderRequestID, middleware.HeaderTraceID)
	c.ExposeHeaders = []string{middleware.HeaderRequestID, middleware.HeaderTraceID}
	c.MaxAge = 12 * time.Hour
	return c
}

// registerDirectoryRoutes registers the client directory endpoints.
func registerDirectoryRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Directory
	if svc == nil {
		svc = directory.NewService(directory.UnconfiguredRepository{})
	}

	handler := handlers.NewClientsHandler(base, svc)
	clients := rg.Group("/clients")
	clients.GET("", handler.List)
	clients.POST("", handler.Create)
}

// registerDocumentRoutes registers the raw and typed document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Documents

	// --- RAW RECORDS ---
	{
		handler := handlers.NewDocumentsHandler(base, svc)
		RegisterCollectionRoutes(rg.Group("/documents/:type"), handler)
	}

	// --- INVOICES ---
	{
		handler := handlers.NewTypedDocumentHandler(base, handlers.TypedDocumentHandlerConfig[*documents.Invoice, dto.CreateInvoiceRequest]{
			Service:      svc.Invoices(),
			MapCreateDTO: dto.CreateInvoiceRequest.ToInvoice,
		})
		RegisterCollectionRoutes(rg.Group("/invoices"), handler)
	}

	// --- QUOTATIONS ---
	{
		handler := handlers.NewTypedDocumentHandler(base, handlers.TypedDocumentHandlerConfig[*documents.Quotation, dto.CreateQuotationRequest]{
			Service:      svc.Quotations(),
			MapCreateDTO: dto.CreateQuotationRequest.ToQuotation,
			MapToDTO: func(q *documents.Quotation) any {
				return dto.QuotationResponse{Quotation: q, Expired: q.Expired(time.Now())}
			},
		})
		RegisterCollectionRoutes(rg.Group("/quotations"), handler)
	}

	// --- RECEIPTS ---
	{
		handler := handlers.NewTypedDocumentHandler(base, handlers.TypedDocumentHandlerConfig[*documents.Receipt, dto.CreateReceiptRequest]{
			Service:      svc.Receipts(),
			MapCreateDTO: dto.CreateReceiptRequest.ToReceipt,
			MapToDTO: func(r *documents.Receipt) any {
				return dto.ReceiptResponse{Receipt: r, Balance: r.Balance()}
			},
		})
		RegisterCollectionRoutes(rg.Group("/receipts"), handler)
	}
}
