package request

import "github.com/google/uuid"

// RecordMovementRequest represents a standalone stock movement request
type RecordMovementRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	MovementType  string    `json:"movement_type" binding:"required,oneof=ADD ADJUSTMENT RESTOCK RETURN DAMAGE"`
	QuantityDelta float64   `json:"quantity_delta" binding:"required"`
	Actor         *string   `json:"actor" binding:"omitempty,max=255"`
	Notes         *string   `json:"notes"`
}
