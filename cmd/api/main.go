package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/mabatisales/mabati-api/internal/application/service"
	"github.com/mabatisales/mabati-api/internal/config"
	"github.com/mabatisales/mabati-api/internal/infrastructure/database"
	"github.com/mabatisales/mabati-api/internal/infrastructure/repository"
	"github.com/mabatisales/mabati-api/internal/presentation/http/handler"
	"github.com/mabatisales/mabati-api/internal/presentation/http/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// A fresh install needs at least one branch to operate from
	defaultBranch, err := database.SeedDefaultBranch(db, cfg.Orders.DefaultBranch)
	if err != nil {
		log.Fatalf("Failed to seed default branch: %v", err)
	}

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	branchRepo := repository.NewBranchRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	layawayRepo := repository.NewLayawayRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	stockService := service.NewStockService(txManager, movementRepo, productRepo)
	orderService := service.NewOrderService(
		txManager,
		orderRepo,
		orderItemRepo,
		paymentRepo,
		productRepo,
		layawayRepo,
		customerRepo,
		stockService,
		cfg.Orders.AllowPartialCollection,
	)
	layawayService := service.NewLayawayService(txManager, layawayRepo, orderRepo, paymentRepo, orderService)
	productService := service.NewProductService(txManager, productRepo, stockService)
	customerService := service.NewCustomerService(customerRepo)
	branchService := service.NewBranchService(branchRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Order:    handler.NewOrderHandler(orderService),
		Stock:    handler.NewStockHandler(stockService),
		Layaway:  handler.NewLayawayHandler(layawayService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Branch:   handler.NewBranchHandler(branchService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		BranchRepo:      branchRepo,
		IdempotencyRepo: idempotencyRepo,
		DefaultBranchID: defaultBranch.ID,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
