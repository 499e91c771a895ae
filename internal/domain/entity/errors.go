package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mabatisales/mabati-api/internal/domain/enum"
)

// ValidationError reports malformed input (negative amounts, bad dates).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTransitionError reports a state-machine guard failure.
type InvalidTransitionError struct {
	From   enum.OrderStatus
	To     enum.OrderStatus
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s: %s", e.From, e.To, e.Reason)
}

// InsufficientStockError reports a movement that would take a product's
// stock level negative.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %s, available %s",
		e.ProductID, e.Requested, e.Available)
}

// OverpaymentError reports a payment exceeding the order's balance.
// The caller must reduce the amount and retry; no partial acceptance.
type OverpaymentError struct {
	OrderID uuid.UUID
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds balance of %s on order %s",
		e.Amount, e.Balance, e.OrderID)
}

// NotFoundError reports a missing aggregate.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// AlreadyReversedError reports a second reversal attempt on a ledger entry.
type AlreadyReversedError struct {
	Kind string
	ID   uuid.UUID
}

func (e *AlreadyReversedError) Error() string {
	return fmt.Sprintf("%s %s is already reversed", e.Kind, e.ID)
}

// ScheduleMismatchError reports a layaway deposit larger than the order total.
type ScheduleMismatchError struct {
	Deposit decimal.Decimal
	Total   decimal.Decimal
}

func (e *ScheduleMismatchError) Error() string {
	return fmt.Sprintf("deposit %s exceeds order total %s", e.Deposit, e.Total)
}

// InvalidSourceTypeError reports a conversion attempt on a non-quotation order.
type InvalidSourceTypeError struct {
	OrderID uuid.UUID
	Type    enum.OrderType
}

func (e *InvalidSourceTypeError) Error() string {
	return fmt.Sprintf("order %s is a %s, only quotations can be converted", e.OrderID, e.Type)
}
