package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/pkg/apperror"
	"github.com/mabatisales/mabati-api/pkg/pagination"
)

// StockService owns the stock movement ledger. Product.Quantity is a
// cached projection of the ledger; every write locks the product row,
// appends an entry and updates the projection in the same transaction.
type StockService struct {
	tx           repository.TxManager
	movementRepo repository.StockMovementRepository
	productRepo  repository.ProductRepository
}

// NewStockService creates a new stock service
func NewStockService(
	tx repository.TxManager,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) *StockService {
	return &StockService{
		tx:           tx,
		movementRepo: movementRepo,
		productRepo:  productRepo,
	}
}

// MovementInput represents a ledger entry to append
type MovementInput struct {
	ProductID     uuid.UUID
	OrderID       *uuid.UUID
	MovementType  enum.MovementType
	QuantityDelta decimal.Decimal
	Actor         *string
	Notes         *string
}

// Record appends a ledger entry inside the caller's transaction. The
// product row is locked before the stock level is read, so the
// before/after snapshot is consistent under concurrency. A delta that
// would drive stock negative is rejected and nothing is written.
func (s *StockService) Record(ctx context.Context, input *MovementInput) (*entity.StockMovement, error) {
	if input.QuantityDelta.IsZero() {
		return nil, &entity.ValidationError{Field: "quantity_delta", Message: "quantity delta cannot be zero"}
	}

	product, err := s.productRepo.GetForUpdate(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	before := product.Quantity
	after := before.Add(input.QuantityDelta)
	if after.IsNegative() {
		return nil, &entity.InsufficientStockError{
			ProductID: product.ID,
			Requested: input.QuantityDelta.Neg(),
			Available: before,
		}
	}

	movement := &entity.StockMovement{
		ProductID:     input.ProductID,
		OrderID:       input.OrderID,
		MovementType:  input.MovementType,
		QuantityDelta: input.QuantityDelta,
		StockBefore:   before,
		StockAfter:    after,
		Actor:         input.Actor,
		Notes:         input.Notes,
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateQuantity(ctx, product.ID, after); err != nil {
		return nil, err
	}

	return movement, nil
}

// RecordMovement appends a standalone ledger entry (restock,
// adjustment, damage and the like) in its own transaction.
func (s *StockService) RecordMovement(ctx context.Context, input *MovementInput) (*entity.StockMovement, error) {
	if input.MovementType == enum.MovementTypeSale || input.MovementType == enum.MovementTypeReversal {
		return nil, &entity.ValidationError{Field: "movement_type", Message: "sale and reversal entries are written by the order lifecycle"}
	}

	var movement *entity.StockMovement
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var rerr error
		movement, rerr = s.Record(ctx, input)
		return rerr
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// Reverse tombstones a ledger entry and appends the compensating entry
// with the opposite delta. Must run inside the caller's transaction.
// Compensating entries cannot themselves be reversed.
func (s *StockService) Reverse(ctx context.Context, movementID uuid.UUID, reason string) (*entity.StockMovement, error) {
	original, err := s.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, apperror.NewNotFoundError("Stock movement")
	}
	if original.ReversalOfID != nil {
		return nil, &entity.ValidationError{Field: "movement_id", Message: "compensating entries cannot be reversed"}
	}
	if err := original.MarkReversed(time.Now()); err != nil {
		return nil, err
	}

	notes := reason
	compensation, err := s.Record(ctx, &MovementInput{
		ProductID:     original.ProductID,
		OrderID:       original.OrderID,
		MovementType:  enum.MovementTypeReversal,
		QuantityDelta: original.QuantityDelta.Neg(),
		Notes:         &notes,
	})
	if err != nil {
		return nil, err
	}
	compensation.ReversalOfID = &original.ID
	if err := s.movementRepo.Update(ctx, compensation); err != nil {
		return nil, err
	}

	if err := s.movementRepo.Update(ctx, original); err != nil {
		return nil, err
	}
	return compensation, nil
}

// ReverseMovement reverses a single ledger entry in its own transaction.
func (s *StockService) ReverseMovement(ctx context.Context, movementID uuid.UUID, reason string) (*entity.StockMovement, error) {
	var compensation *entity.StockMovement
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var rerr error
		compensation, rerr = s.Reverse(ctx, movementID, reason)
		return rerr
	})
	if err != nil {
		return nil, err
	}
	return compensation, nil
}

// MovementsForOrder returns every ledger entry an order produced.
func (s *StockService) MovementsForOrder(ctx context.Context, orderID uuid.UUID) ([]entity.StockMovement, error) {
	return s.movementRepo.ListByOrder(ctx, orderID)
}

// MovementsForProduct returns a product's ledger page, newest first.
func (s *StockService) MovementsForProduct(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	movements, total, err := s.movementRepo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}
