package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/pkg/money"
)

// Order is the aggregate root of the order lifecycle. TotalAmount is
// fixed at creation; paid and balance amounts are always derived from
// the payment ledger, never stored.
type Order struct {
	ID                     uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	BranchID               uuid.UUID        `gorm:"type:uuid;not null;index" json:"branch_id"`
	CustomerID             *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	OrderNumber            string           `gorm:"size:100;unique;not null" json:"order_number"`
	OrderType              enum.OrderType   `gorm:"not null;default:0;index" json:"order_type"`
	Status                 enum.OrderStatus `gorm:"not null;default:0;index" json:"status"`
	TotalAmount            decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"`
	ExpectedCollectionDate *time.Time       `gorm:"type:date" json:"expected_collection_date,omitempty"`
	CompletionDate         *time.Time       `json:"completion_date,omitempty"`
	Notes                  *string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
	DeletedAt              gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Branch   Branch       `gorm:"foreignKey:BranchID" json:"-"`
	Customer *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments []Payment    `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	Layaway  *LayawayPlan `gorm:"foreignKey:OrderID" json:"layaway,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// MarshalJSON adds the derived paid/balance amounts to API responses.
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		PaidAmount    decimal.Decimal `json:"paid_amount"`
		BalanceAmount decimal.Decimal `json:"balance_amount"`
	}{
		Alias:         Alias(o),
		PaidAmount:    o.PaidAmount(),
		BalanceAmount: o.BalanceAmount(),
	})
}

// PaidAmount is the sum of all non-reversed payments.
func (o *Order) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range o.Payments {
		if !p.Reversed {
			paid = paid.Add(p.Amount)
		}
	}
	return money.Round(paid)
}

// BalanceAmount is the outstanding amount, never negative.
func (o *Order) BalanceAmount() decimal.Decimal {
	balance := o.TotalAmount.Sub(o.PaidAmount())
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// DeriveStatus projects the payment-driven statuses from the ledger
// state. Collection and terminal statuses are set by explicit
// transitions and are left untouched here.
func (o *Order) DeriveStatus() enum.OrderStatus {
	switch o.Status {
	case enum.OrderStatusReadyForCollection, enum.OrderStatusCompleted,
		enum.OrderStatusCancelled, enum.OrderStatusReversed:
		return o.Status
	}

	if o.OrderType == enum.OrderTypeQuotation {
		return enum.OrderStatusPending
	}

	paid := o.PaidAmount()
	if o.BalanceAmount().IsZero() && paid.GreaterThan(decimal.Zero) {
		return enum.OrderStatusFullyPaid
	}

	// A layaway that has only its deposit in the ledger is CONFIRMED;
	// it moves to PARTIALLY_PAID once installment money arrives.
	if o.OrderType == enum.OrderTypeLayaway && o.Layaway != nil {
		if paid.LessThanOrEqual(o.Layaway.DepositAmount) {
			return enum.OrderStatusConfirmed
		}
		return enum.OrderStatusPartiallyPaid
	}

	if paid.GreaterThan(decimal.Zero) {
		return enum.OrderStatusPartiallyPaid
	}
	return enum.OrderStatusPending
}

// CanAcceptPayment reports whether the order is in a state where the
// payment ledger may grow.
func (o *Order) CanAcceptPayment() bool {
	switch o.Status {
	case enum.OrderStatusConfirmed, enum.OrderStatusPartiallyPaid,
		enum.OrderStatusPending, enum.OrderStatusReadyForCollection:
		return o.OrderType != enum.OrderTypeQuotation
	}
	return false
}

// MarkReadyForCollection transitions the order to READY_FOR_COLLECTION.
// Fully paid orders always qualify; a partially paid FUTURE_COLLECTION
// order qualifies only when the deposit-secures-collection policy is on.
func (o *Order) MarkReadyForCollection(allowPartialCollection bool) error {
	if !o.OrderType.RequiresCollection() {
		return &InvalidTransitionError{
			From:   o.Status,
			To:     enum.OrderStatusReadyForCollection,
			Reason: "quotations have nothing to collect",
		}
	}

	switch o.Status {
	case enum.OrderStatusFullyPaid:
		o.Status = enum.OrderStatusReadyForCollection
		return nil
	case enum.OrderStatusPartiallyPaid:
		if o.OrderType == enum.OrderTypeFutureCollection && allowPartialCollection &&
			o.PaidAmount().GreaterThan(decimal.Zero) {
			o.Status = enum.OrderStatusReadyForCollection
			return nil
		}
	}

	return &InvalidTransitionError{
		From:   o.Status,
		To:     enum.OrderStatusReadyForCollection,
		Reason: "order must be fully paid before collection",
	}
}

// CompleteCollection transitions READY_FOR_COLLECTION to COMPLETED and
// stamps the completion date.
func (o *Order) CompleteCollection(now time.Time) error {
	if o.Status != enum.OrderStatusReadyForCollection {
		return &InvalidTransitionError{
			From:   o.Status,
			To:     enum.OrderStatusCompleted,
			Reason: "order is not ready for collection",
		}
	}
	o.Status = enum.OrderStatusCompleted
	o.CompletionDate = &now
	return nil
}

// Cancel transitions to CANCELLED. Only orders with nothing committed
// may be cancelled; once money or stock has moved the order must be
// reversed instead, so the ledgers keep their audit trail.
func (o *Order) Cancel() error {
	if o.Status.IsTerminal() {
		return &InvalidTransitionError{
			From:   o.Status,
			To:     enum.OrderStatusCancelled,
			Reason: "order already finalised",
		}
	}
	for _, p := range o.Payments {
		if !p.Reversed {
			return &InvalidTransitionError{
				From:   o.Status,
				To:     enum.OrderStatusCancelled,
				Reason: "order has payments; reverse it instead",
			}
		}
	}
	o.Status = enum.OrderStatusCancelled
	return nil
}

// CanReverse reports whether reverse() may run: any state except the
// terminal ones.
func (o *Order) CanReverse() bool {
	return !o.Status.IsTerminal()
}

// OrderItem represents a line item in an order. For area-priced
// products the billable quantity is length x width x piece count.
type OrderItem struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName     string           `gorm:"size:255" json:"product_name"`
	ProductCode     string           `gorm:"size:100" json:"product_code"`
	Quantity        int              `gorm:"not null" json:"quantity"`
	Length          *decimal.Decimal `gorm:"type:decimal(18,4)" json:"length,omitempty"`
	Width           *decimal.Decimal `gorm:"type:decimal(18,4)" json:"width,omitempty"`
	UnitPrice       decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	DiscountPercent decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	LineTotal       decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"line_total"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// StockQuantity is the quantity debited from inventory for this line:
// square metres for area-priced items, piece count otherwise.
func (i *OrderItem) StockQuantity(mode enum.PricingMode) decimal.Decimal {
	if mode == enum.PricingModeArea && i.Length != nil && i.Width != nil {
		return money.AreaQuantity(*i.Length, *i.Width, i.Quantity)
	}
	return decimal.NewFromInt(int64(i.Quantity))
}
