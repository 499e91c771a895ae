package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/pkg/pagination"
)

// StockMovementRepository defines the interface for the stock movement
// ledger. The ledger is append-only: Update exists solely to set the
// reversal tombstone on an entry.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockMovement, error)
	Update(ctx context.Context, movement *entity.StockMovement) error
	// ListByOrder returns the order's movements in creation order.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.StockMovement, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error)
}
