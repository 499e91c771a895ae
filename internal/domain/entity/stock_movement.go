package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabatisales/mabati-api/internal/domain/enum"
)

// StockMovement is an append-only ledger entry of an inventory delta.
// StockAfter = StockBefore + QuantityDelta always holds. Reversal never
// edits an entry in place: the original is tombstoned and a new
// compensating entry with the opposite delta is appended, linked back
// through ReversalOfID.
type StockMovement struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	OrderID       *uuid.UUID        `gorm:"type:uuid;index" json:"order_id,omitempty"`
	MovementType  enum.MovementType `gorm:"not null;default:2;index" json:"movement_type"`
	QuantityDelta decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"quantity_delta"`
	StockBefore   decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"stock_before"`
	StockAfter    decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"stock_after"`
	Actor         *string           `gorm:"size:255" json:"actor,omitempty"`
	Notes         *string           `gorm:"type:text" json:"notes,omitempty"`
	Reversed      bool              `gorm:"not null;default:false;index" json:"reversed"`
	ReversedAt    *time.Time        `json:"reversed_at,omitempty"`
	ReversalOfID  *uuid.UUID        `gorm:"type:uuid;index" json:"reversal_of_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
	Order   *Order  `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}

// MarkReversed tombstones the movement so a compensating entry can be
// appended for it.
func (m *StockMovement) MarkReversed(now time.Time) error {
	if m.Reversed {
		return &AlreadyReversedError{Kind: "stock movement", ID: m.ID}
	}
	m.Reversed = true
	m.ReversedAt = &now
	return nil
}
