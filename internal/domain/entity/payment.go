package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabatisales/mabati-api/internal/domain/enum"
)

// Payment is an append-only ledger entry of money received against an
// order. Payments are never deleted; a reversal tombstones the entry so
// it stops counting towards the paid amount.
type Payment struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount         decimal.Decimal    `gorm:"type:decimal(18,2);not null" json:"amount"`
	Method         enum.PaymentMethod `gorm:"not null;default:0" json:"method"`
	Reference      *string            `gorm:"size:255" json:"reference,omitempty"`
	Notes          *string            `gorm:"type:text" json:"notes,omitempty"`
	ReceivedBy     *string            `gorm:"size:255" json:"received_by,omitempty"`
	PaidAt         time.Time          `gorm:"not null" json:"paid_at"`
	Reversed       bool               `gorm:"not null;default:false;index" json:"reversed"`
	ReversedAt     *time.Time         `json:"reversed_at,omitempty"`
	ReversalReason *string            `gorm:"size:500" json:"reversal_reason,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// Reverse tombstones the payment. A reversed payment contributes
// nothing to the order's paid amount.
func (p *Payment) Reverse(reason string, now time.Time) error {
	if p.Reversed {
		return &AlreadyReversedError{Kind: "payment", ID: p.ID}
	}
	p.Reversed = true
	p.ReversedAt = &now
	p.ReversalReason = &reason
	return nil
}
