package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mabatisales/mabati-api/internal/config"
	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/pkg/utils"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Catalogue entities
		&entity.Branch{},
		&entity.Customer{},
		&entity.Product{},

		// Order lifecycle entities
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Payment{},
		&entity.LayawayPlan{},
		&entity.LayawayInstallment{},

		// Ledger entities
		&entity.StockMovement{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultBranch ensures the configured default branch exists and
// returns it. A fresh install gets one branch to operate from.
func SeedDefaultBranch(db *gorm.DB, name string) (*entity.Branch, error) {
	if name == "" {
		name = "main"
	}
	slug := utils.Slugify(name)

	var branch entity.Branch
	err := db.Where("slug = ?", slug).First(&branch).Error
	if err == nil {
		return &branch, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up default branch: %w", err)
	}

	branch = entity.Branch{
		Name: name,
		Slug: slug,
	}
	if err := db.Create(&branch).Error; err != nil {
		return nil, fmt.Errorf("failed to seed default branch: %w", err)
	}

	log.Printf("Default branch created: %s", branch.Slug)
	return &branch, nil
}
