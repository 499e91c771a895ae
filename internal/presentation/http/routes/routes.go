package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mabatisales/mabati-api/internal/config"
	domainRepo "github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/internal/presentation/http/handler"
	"github.com/mabatisales/mabati-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Order    *handler.OrderHandler
	Stock    *handler.StockHandler
	Layaway  *handler.LayawayHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Branch   *handler.BranchHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	BranchRepo      domainRepo.BranchRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
	DefaultBranchID uuid.UUID
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.Use(middleware.BranchMiddleware(deps.BranchRepo, deps.DefaultBranchID))

		// Per-branch rate limiter
		rateLimiter := middleware.NewBranchRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		// Mutating requests replay through the idempotency cache
		v1.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}))

		registerBranchRoutes(v1, h)
		registerProductRoutes(v1, h)
		registerCustomerRoutes(v1, h)
		registerOrderRoutes(v1, h)
		registerStockRoutes(v1, h)
		registerLayawayRoutes(v1, h)
	}

	return router
}

func registerBranchRoutes(v1 *gin.RouterGroup, h *Handlers) {
	branches := v1.Group("/branches")
	{
		branches.GET("", h.Branch.List)
		branches.POST("", h.Branch.Create)
		branches.GET("/:id", h.Branch.Get)
		branches.PATCH("/:id", h.Branch.Update)
		branches.DELETE("/:id", h.Branch.Delete)
	}
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	products.Use(middleware.RequireBranch())
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PATCH("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.GET("/:id/movements", h.Stock.ListByProduct)
	}
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	customers.Use(middleware.RequireBranch())
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PATCH("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerOrderRoutes(v1 *gin.RouterGroup, h *Handlers) {
	orders := v1.Group("/orders")
	orders.Use(middleware.RequireBranch())
	{
		orders.GET("", h.Order.List)
		orders.POST("/quotations", h.Order.CreateQuotation)
		orders.POST("/sales", h.Order.CreateImmediateSale)
		orders.POST("/future-collections", h.Order.CreateFutureCollection)
		orders.POST("/layaways", h.Order.CreateLayaway)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/payments", h.Order.ApplyPayment)
		orders.POST("/:id/convert", h.Order.Convert)
		orders.POST("/:id/ready", h.Order.MarkReady)
		orders.POST("/:id/complete", h.Order.Complete)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.POST("/:id/reverse", h.Order.Reverse)
		orders.GET("/:id/movements", h.Stock.ListByOrder)
		orders.GET("/:id/layaway", h.Layaway.GetSchedule)
		orders.GET("/:id/layaway/summary", h.Layaway.GetSummary)
		orders.GET("/:id/layaway/overdue", h.Layaway.GetOverdue)
	}

	payments := v1.Group("/payments")
	payments.Use(middleware.RequireBranch())
	{
		payments.POST("/:id/reverse", h.Order.ReversePayment)
	}
}

func registerStockRoutes(v1 *gin.RouterGroup, h *Handlers) {
	stock := v1.Group("/stock")
	stock.Use(middleware.RequireBranch())
	{
		stock.POST("/movements", h.Stock.RecordMovement)
		stock.POST("/movements/:id/reverse", h.Stock.ReverseMovement)
	}
}

func registerLayawayRoutes(v1 *gin.RouterGroup, h *Handlers) {
	layaway := v1.Group("/layaway")
	layaway.Use(middleware.RequireBranch())
	{
		layaway.GET("/overdue", h.Layaway.ListOverdue)
		layaway.POST("/installments/:id/payments", h.Layaway.PayInstallment)
	}
}
