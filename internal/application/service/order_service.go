package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/pkg/apperror"
	"github.com/mabatisales/mabati-api/pkg/money"
	"github.com/mabatisales/mabati-api/pkg/pagination"
)

// minimum initial payment for order types that require one
var minInitialPayment = decimal.NewFromFloat(0.01)

// OrderService owns the order lifecycle: creation of the four order
// kinds, the payment ledger, status transitions and reversal. Every
// mutating operation runs inside one transaction with the order row
// locked, so ledger writes and the status change commit atomically.
type OrderService struct {
	tx                     repository.TxManager
	orderRepo              repository.OrderRepository
	itemRepo               repository.OrderItemRepository
	paymentRepo            repository.PaymentRepository
	productRepo            repository.ProductRepository
	layawayRepo            repository.LayawayRepository
	customerRepo           repository.CustomerRepository
	stockService           *StockService
	allowPartialCollection bool
}

// NewOrderService creates a new order service
func NewOrderService(
	tx repository.TxManager,
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	layawayRepo repository.LayawayRepository,
	customerRepo repository.CustomerRepository,
	stockService *StockService,
	allowPartialCollection bool,
) *OrderService {
	return &OrderService{
		tx:                     tx,
		orderRepo:              orderRepo,
		itemRepo:               itemRepo,
		paymentRepo:            paymentRepo,
		productRepo:            productRepo,
		layawayRepo:            layawayRepo,
		customerRepo:           customerRepo,
		stockService:           stockService,
		allowPartialCollection: allowPartialCollection,
	}
}

// OrderItemInput represents a line item in an order
type OrderItemInput struct {
	ProductID       uuid.UUID
	Quantity        int
	Length          *float64
	Width           *float64
	UnitPrice       *float64 // overrides the product price when set
	DiscountPercent float64
}

// PaymentInput represents a payment to record against an order
type PaymentInput struct {
	Amount     float64
	Method     enum.PaymentMethod
	Reference  *string
	Notes      *string
	ReceivedBy *string
}

// LayawayInput represents the layaway plan parameters
type LayawayInput struct {
	DepositAmount        float64
	NumberOfInstallments int
	FrequencyDays        int
	FirstInstallmentDate time.Time
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	BranchID               uuid.UUID
	CustomerID             *uuid.UUID
	Notes                  *string
	Items                  []OrderItemInput
	Payment                *PaymentInput
	ExpectedCollectionDate *time.Time
	Layaway                *LayawayInput
	Actor                  *string
}

// CreateQuotation creates a non-binding priced order with no payment
// and no stock commitment.
func (s *OrderService) CreateQuotation(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	return s.createOrder(ctx, enum.OrderTypeQuotation, input)
}

// CreateImmediateSale creates a sale collected on the spot: initial
// payment required, stock consumed immediately.
func (s *OrderService) CreateImmediateSale(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	return s.createOrder(ctx, enum.OrderTypeImmediateSale, input)
}

// CreateFutureCollection creates a paid-now-collect-later order:
// initial payment and an expected collection date required, stock
// consumed immediately.
func (s *OrderService) CreateFutureCollection(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	return s.createOrder(ctx, enum.OrderTypeFutureCollection, input)
}

// CreateLayaway creates a deposit-plus-installments order: the layaway
// plan drives the deposit payment, stock is consumed immediately.
func (s *OrderService) CreateLayaway(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	return s.createOrder(ctx, enum.OrderTypeLayaway, input)
}

func (s *OrderService) createOrder(ctx context.Context, orderType enum.OrderType, input *CreateOrderInput) (*entity.Order, error) {
	if err := validateCreateInput(orderType, input); err != nil {
		return nil, err
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	var orderID uuid.UUID
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		products, err := s.loadProducts(ctx, input.Items, orderType.ConsumesStock())
		if err != nil {
			return err
		}

		items, total, err := buildItems(input.Items, products)
		if err != nil {
			return err
		}

		nextNum, err := s.orderRepo.NextOrderNumber(ctx, orderType)
		if err != nil {
			return err
		}

		order := &entity.Order{
			BranchID:               input.BranchID,
			CustomerID:             input.CustomerID,
			OrderNumber:            fmt.Sprintf("%s-%06d", orderNumberPrefix(orderType), nextNum),
			OrderType:              orderType,
			Status:                 enum.OrderStatusPending,
			TotalAmount:            total,
			ExpectedCollectionDate: input.ExpectedCollectionDate,
			Notes:                  input.Notes,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		orderID = order.ID

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
			return err
		}
		order.Items = items

		if orderType == enum.OrderTypeLayaway {
			plan, err := entity.NewLayawayPlan(
				total,
				money.FromFloat(input.Layaway.DepositAmount),
				input.Layaway.NumberOfInstallments,
				input.Layaway.FrequencyDays,
				input.Layaway.FirstInstallmentDate,
			)
			if err != nil {
				return err
			}
			plan.OrderID = order.ID
			if err := s.layawayRepo.CreatePlan(ctx, plan); err != nil {
				return err
			}
			order.Layaway = plan
		}

		if input.Payment != nil {
			if err := s.appendPayment(ctx, order, input.Payment); err != nil {
				return err
			}
		}

		if orderType.ConsumesStock() {
			for i := range order.Items {
				item := &order.Items[i]
				product := products[item.ProductID]
				_, err := s.stockService.Record(ctx, &MovementInput{
					ProductID:     item.ProductID,
					OrderID:       &order.ID,
					MovementType:  enum.MovementTypeSale,
					QuantityDelta: item.StockQuantity(product.PricingMode).Neg(),
					Actor:         input.Actor,
				})
				if err != nil {
					return err
				}
			}
		}

		order.Status = order.DeriveStatus()
		return s.orderRepo.UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// validateCreateInput enforces the per-type creation guards before any
// storage work happens.
func validateCreateInput(orderType enum.OrderType, input *CreateOrderInput) error {
	if len(input.Items) == 0 {
		return &entity.ValidationError{Field: "items", Message: "at least one item is required"}
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return &entity.ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
		}
		if item.DiscountPercent < 0 || item.DiscountPercent > 100 {
			return &entity.ValidationError{Field: "discount_percent", Message: "discount must be between 0 and 100"}
		}
	}

	switch orderType {
	case enum.OrderTypeQuotation:
		if input.Payment != nil {
			return &entity.ValidationError{Field: "payment", Message: "quotations do not take payments"}
		}
	case enum.OrderTypeImmediateSale:
		if input.Payment == nil || money.FromFloat(input.Payment.Amount).LessThan(minInitialPayment) {
			return &entity.ValidationError{Field: "payment", Message: "an initial payment is required"}
		}
	case enum.OrderTypeFutureCollection:
		if input.Payment == nil || money.FromFloat(input.Payment.Amount).LessThan(minInitialPayment) {
			return &entity.ValidationError{Field: "payment", Message: "an initial payment is required"}
		}
		if input.ExpectedCollectionDate == nil {
			return &entity.ValidationError{Field: "expected_collection_date", Message: "an expected collection date is required"}
		}
	case enum.OrderTypeLayaway:
		if input.Layaway == nil {
			return &entity.ValidationError{Field: "layaway", Message: "a layaway plan is required"}
		}
		deposit := money.FromFloat(input.Layaway.DepositAmount)
		if deposit.GreaterThan(decimal.Zero) {
			if input.Payment == nil {
				return &entity.ValidationError{Field: "payment", Message: "the deposit payment is required"}
			}
			if !money.FromFloat(input.Payment.Amount).Equal(deposit) {
				return &entity.ValidationError{Field: "payment", Message: "the initial payment must equal the plan deposit"}
			}
		}
	}
	return nil
}

// loadProducts fetches every product referenced by the items, locking
// the rows (in a stable order, to avoid lock cycles) when stock will
// be consumed.
func (s *OrderService) loadProducts(ctx context.Context, items []OrderItemInput, lock bool) (map[uuid.UUID]*entity.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	products := make(map[uuid.UUID]*entity.Product, len(ids))
	for _, id := range ids {
		var product *entity.Product
		var err error
		if lock {
			product, err = s.productRepo.GetForUpdate(ctx, id)
		} else {
			product, err = s.productRepo.GetByID(ctx, id)
		}
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", id))
		}
		products[id] = product
	}
	return products, nil
}

// buildItems turns the inputs into order items, pricing each line from
// the product's pricing mode, and returns the order total.
func buildItems(inputs []OrderItemInput, products map[uuid.UUID]*entity.Product) ([]entity.OrderItem, decimal.Decimal, error) {
	items := make([]entity.OrderItem, 0, len(inputs))
	total := decimal.Zero

	for _, in := range inputs {
		product := products[in.ProductID]

		unitPrice := product.UnitPrice
		if in.UnitPrice != nil {
			unitPrice = money.FromFloat(*in.UnitPrice)
		}

		item := entity.OrderItem{
			ProductID:       in.ProductID,
			ProductName:     product.Name,
			ProductCode:     product.Code,
			Quantity:        in.Quantity,
			UnitPrice:       unitPrice,
			DiscountPercent: money.FromFloat(in.DiscountPercent),
		}

		if product.PricingMode == enum.PricingModeArea {
			if in.Length == nil || in.Width == nil {
				return nil, decimal.Zero, &entity.ValidationError{
					Field:   "length",
					Message: fmt.Sprintf("product %s is area priced and needs length and width", product.Code),
				}
			}
			length := money.QuantityFromFloat(*in.Length)
			width := money.QuantityFromFloat(*in.Width)
			if !length.IsPositive() || !width.IsPositive() {
				return nil, decimal.Zero, &entity.ValidationError{Field: "length", Message: "length and width must be positive"}
			}
			item.Length = &length
			item.Width = &width
		}

		item.LineTotal = money.LineTotal(item.StockQuantity(product.PricingMode), unitPrice, item.DiscountPercent)
		if item.LineTotal.IsNegative() {
			return nil, decimal.Zero, &entity.ValidationError{Field: "line_total", Message: "line total cannot be negative"}
		}

		total = total.Add(item.LineTotal)
		items = append(items, item)
	}

	return items, money.Round(total), nil
}

func orderNumberPrefix(orderType enum.OrderType) string {
	switch orderType {
	case enum.OrderTypeQuotation:
		return "QT"
	case enum.OrderTypeFutureCollection:
		return "FC"
	case enum.OrderTypeLayaway:
		return "LAY"
	default:
		return "INV"
	}
}

// appendPayment validates a payment against the locked order, appends
// it to the ledger and re-derives the order status. Must run inside
// the caller's transaction.
func (s *OrderService) appendPayment(ctx context.Context, order *entity.Order, input *PaymentInput) error {
	amount := money.FromFloat(input.Amount)
	if !amount.IsPositive() {
		return &entity.ValidationError{Field: "amount", Message: "payment amount must be positive"}
	}
	if !order.CanAcceptPayment() {
		return &entity.InvalidTransitionError{
			From:   order.Status,
			To:     order.Status,
			Reason: "order cannot accept payments",
		}
	}
	if amount.GreaterThan(order.BalanceAmount()) {
		return &entity.OverpaymentError{
			OrderID: order.ID,
			Amount:  amount,
			Balance: order.BalanceAmount(),
		}
	}

	payment := &entity.Payment{
		OrderID:    order.ID,
		Amount:     amount,
		Method:     input.Method,
		Reference:  input.Reference,
		Notes:      input.Notes,
		ReceivedBy: input.ReceivedBy,
		PaidAt:     time.Now(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return err
	}

	order.Payments = append(order.Payments, *payment)
	order.Status = order.DeriveStatus()
	return nil
}

// ApplyPayment records a payment against an order and re-derives its
// status from the ledger. The order row stays locked for the duration,
// so two concurrent payments can never both pass the balance check.
func (s *OrderService) ApplyPayment(ctx context.Context, orderID uuid.UUID, input *PaymentInput) (*entity.Order, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if err := s.appendPayment(ctx, order, input); err != nil {
			return err
		}
		return s.orderRepo.UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// ReversePayment tombstones a payment and re-derives the order status.
// A fully paid order dropping back to partially paid is expected.
func (s *OrderService) ReversePayment(ctx context.Context, paymentID uuid.UUID, reason string) (*entity.Order, error) {
	var orderID uuid.UUID
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}
		orderID = payment.OrderID

		order, err := s.orderRepo.GetForUpdate(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}

		if err := payment.Reverse(reason, time.Now()); err != nil {
			return err
		}
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}

		for i := range order.Payments {
			if order.Payments[i].ID == payment.ID {
				order.Payments[i] = *payment
			}
		}
		order.Status = order.DeriveStatus()
		return s.orderRepo.UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// MarkReadyForCollection transitions an order to READY_FOR_COLLECTION.
func (s *OrderService) MarkReadyForCollection(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return s.transition(ctx, orderID, func(order *entity.Order) error {
		return order.MarkReadyForCollection(s.allowPartialCollection)
	})
}

// CompleteCollection transitions READY_FOR_COLLECTION to COMPLETED.
func (s *OrderService) CompleteCollection(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return s.transition(ctx, orderID, func(order *entity.Order) error {
		return order.CompleteCollection(time.Now())
	})
}

// CancelOrder cancels an order that has nothing committed yet. Orders
// with payments or stock movements must be reversed instead.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return s.transition(ctx, orderID, func(order *entity.Order) error {
		movements, err := s.stockService.MovementsForOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, m := range movements {
			if !m.Reversed {
				return &entity.InvalidTransitionError{
					From:   order.Status,
					To:     enum.OrderStatusCancelled,
					Reason: "order has stock movements; reverse it instead",
				}
			}
		}
		return order.Cancel()
	})
}

// transition runs an entity-level transition under the order lock and
// persists the resulting state.
func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, fn func(order *entity.Order) error) (*entity.Order, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if err := fn(order); err != nil {
			return err
		}
		return s.orderRepo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// ReverseOrder reverses every non-reversed payment and stock movement
// on the order, appends the compensating stock entries and moves the
// order to REVERSED. Compensating entries from earlier single-movement
// reversals are left alone so the undo is not itself undone.
func (s *OrderService) ReverseOrder(ctx context.Context, orderID uuid.UUID, reason string) (*entity.Order, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if !order.CanReverse() {
			return &entity.InvalidTransitionError{
				From:   order.Status,
				To:     enum.OrderStatusReversed,
				Reason: "order already finalised",
			}
		}

		now := time.Now()
		for i := range order.Payments {
			if order.Payments[i].Reversed {
				continue
			}
			if err := order.Payments[i].Reverse(reason, now); err != nil {
				return err
			}
			if err := s.paymentRepo.Update(ctx, &order.Payments[i]); err != nil {
				return err
			}
		}

		movements, err := s.stockService.MovementsForOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		for i := range movements {
			if movements[i].Reversed || movements[i].ReversalOfID != nil {
				continue
			}
			if _, err := s.stockService.Reverse(ctx, movements[i].ID, reason); err != nil {
				return err
			}
		}

		order.Status = enum.OrderStatusReversed
		return s.orderRepo.UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// ConvertQuotationInput carries the conversion target and optional
// wholesale item replacement plus the creation parameters the target
// type requires.
type ConvertQuotationInput struct {
	TargetType             enum.OrderType
	Items                  []OrderItemInput // replaces the quotation's items when set
	Payment                *PaymentInput
	ExpectedCollectionDate *time.Time
	Layaway                *LayawayInput
	Actor                  *string
}

// ConvertQuotation rehydrates a quotation's line items into a new
// order of the chosen type through the normal creation path. The
// source quotation is not touched.
func (s *OrderService) ConvertQuotation(ctx context.Context, quotationID uuid.UUID, input *ConvertQuotationInput) (*entity.Order, error) {
	quotation, err := s.orderRepo.GetWithDetails(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	if quotation.OrderType != enum.OrderTypeQuotation {
		return nil, &entity.InvalidSourceTypeError{OrderID: quotation.ID, Type: quotation.OrderType}
	}
	if input.TargetType == enum.OrderTypeQuotation {
		return nil, &entity.ValidationError{Field: "target_type", Message: "cannot convert a quotation into another quotation"}
	}

	items := input.Items
	if len(items) == 0 {
		items = make([]OrderItemInput, 0, len(quotation.Items))
		for _, it := range quotation.Items {
			in := OrderItemInput{
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				DiscountPercent: it.DiscountPercent.InexactFloat64(),
			}
			unitPrice := it.UnitPrice.InexactFloat64()
			in.UnitPrice = &unitPrice
			if it.Length != nil {
				length := it.Length.InexactFloat64()
				in.Length = &length
			}
			if it.Width != nil {
				width := it.Width.InexactFloat64()
				in.Width = &width
			}
			items = append(items, in)
		}
	}

	return s.createOrder(ctx, input.TargetType, &CreateOrderInput{
		BranchID:               quotation.BranchID,
		CustomerID:             quotation.CustomerID,
		Notes:                  quotation.Notes,
		Items:                  items,
		Payment:                input.Payment,
		ExpectedCollectionDate: input.ExpectedCollectionDate,
		Layaway:                input.Layaway,
		Actor:                  input.Actor,
	})
}

// GetOrder retrieves an order with its full aggregate
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}
