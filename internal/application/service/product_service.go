package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/pkg/apperror"
	"github.com/mabatisales/mabati-api/pkg/money"
	"github.com/mabatisales/mabati-api/pkg/pagination"
	"github.com/mabatisales/mabati-api/pkg/utils"
)

// ProductService handles product catalogue operations
type ProductService struct {
	tx          repository.TxManager
	productRepo repository.ProductRepository
	stock       *StockService
}

// NewProductService creates a new product service
func NewProductService(tx repository.TxManager, productRepo repository.ProductRepository, stock *StockService) *ProductService {
	return &ProductService{
		tx:          tx,
		productRepo: productRepo,
		stock:       stock,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	BranchID      uuid.UUID
	Name          string
	Code          *string
	Profile       *string
	Gauge         *string
	Colour        *string
	PricingMode   enum.PricingMode
	UnitPrice     float64
	Quantity      float64
	QuantityAlert float64
	Notes         *string
	Actor         *string
}

// CreateProduct creates a product. Any opening stock is booked through
// the movement ledger so the very first quantity has an audit trail.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, &entity.ValidationError{Field: "name", Message: "name is required"}
	}
	if input.UnitPrice < 0 {
		return nil, &entity.ValidationError{Field: "unit_price", Message: "unit price cannot be negative"}
	}
	if input.Quantity < 0 {
		return nil, &entity.ValidationError{Field: "quantity", Message: "opening stock cannot be negative"}
	}

	code := utils.GenerateProductCode()
	if input.Code != nil && *input.Code != "" {
		code = *input.Code
	}
	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this code already exists")
	}

	product := &entity.Product{
		BranchID:      input.BranchID,
		Name:          input.Name,
		Slug:          utils.Slugify(input.Name),
		Code:          code,
		Profile:       input.Profile,
		Gauge:         input.Gauge,
		Colour:        input.Colour,
		PricingMode:   input.PricingMode,
		UnitPrice:     money.FromFloat(input.UnitPrice),
		Quantity:      decimal.Zero,
		QuantityAlert: money.QuantityFromFloat(input.QuantityAlert),
		Notes:         input.Notes,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
		opening := money.QuantityFromFloat(input.Quantity)
		if opening.IsPositive() {
			_, err := s.stock.Record(ctx, &MovementInput{
				ProductID:     product.ID,
				MovementType:  enum.MovementTypeAdd,
				QuantityDelta: opening,
				Actor:         input.Actor,
			})
			if err != nil {
				return err
			}
			product.Quantity = opening
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input. Quantity is
// deliberately absent: stock levels only change through the ledger.
type UpdateProductInput struct {
	Name          *string
	Profile       *string
	Gauge         *string
	Colour        *string
	UnitPrice     *float64
	QuantityAlert *float64
	Notes         *string
}

// UpdateProduct updates catalogue fields of a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name)
	}
	if input.Profile != nil {
		product.Profile = input.Profile
	}
	if input.Gauge != nil {
		product.Gauge = input.Gauge
	}
	if input.Colour != nil {
		product.Colour = input.Colour
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, &entity.ValidationError{Field: "unit_price", Message: "unit price cannot be negative"}
		}
		product.UnitPrice = money.FromFloat(*input.UnitPrice)
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = money.QuantityFromFloat(*input.QuantityAlert)
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct soft deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}
