package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	// GetWithDetails loads the full aggregate: items, payments and layaway plan.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetForUpdate loads the full aggregate under a row lock so that
	// concurrent ledger mutations on the same order serialize.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	NextOrderNumber(ctx context.Context, orderType enum.OrderType) (int64, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	BranchID   *uuid.UUID
	CustomerID *uuid.UUID
	Status     *enum.OrderStatus
	OrderType  *enum.OrderType
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// OrderItemRepository defines the interface for order item data operations
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
}

// PaymentRepository defines the interface for the payment ledger.
// Payments are append-only: Update exists solely to set the reversal
// tombstone fields.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error)
}
