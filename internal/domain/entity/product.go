package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabatisales/mabati-api/internal/domain/enum"
)

// Product represents a roofing-sheet product in the inventory.
// Sheets are either sold per piece (fixed-size sheets, accessories) or
// per square metre (cut-to-length sheets), controlled by PricingMode.
type Product struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	BranchID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	Slug          string           `gorm:"size:255;unique;not null" json:"slug"`
	Code          string           `gorm:"size:100;unique;not null" json:"code"`
	Profile       *string          `gorm:"size:100" json:"profile,omitempty"` // e.g. corrugated, box, tile
	Gauge         *string          `gorm:"size:50" json:"gauge,omitempty"`
	Colour        *string          `gorm:"size:50" json:"colour,omitempty"`
	PricingMode   enum.PricingMode `gorm:"default:0" json:"pricing_mode"`
	UnitPrice     decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"unit_price"`
	Quantity      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"quantity"`
	QuantityAlert decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"quantity_alert"`
	Notes         *string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Branch    Branch          `gorm:"foreignKey:BranchID" json:"-"`
	Movements []StockMovement `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// LowStock reports whether the product has fallen to or below its alert level.
func (p *Product) LowStock() bool {
	return p.Quantity.LessThanOrEqual(p.QuantityAlert)
}
