package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=255"`
	Code          *string `json:"code" binding:"omitempty,max=100"`
	Profile       *string `json:"profile" binding:"omitempty,max=100"`
	Gauge         *string `json:"gauge" binding:"omitempty,max=50"`
	Colour        *string `json:"colour" binding:"omitempty,max=50"`
	PricingMode   string  `json:"pricing_mode" binding:"omitempty,oneof=PIECE AREA"`
	UnitPrice     float64 `json:"unit_price" binding:"min=0"`
	Quantity      float64 `json:"quantity" binding:"min=0"`
	QuantityAlert float64 `json:"quantity_alert" binding:"min=0"`
	Notes         *string `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Profile       *string  `json:"profile" binding:"omitempty,max=100"`
	Gauge         *string  `json:"gauge" binding:"omitempty,max=50"`
	Colour        *string  `json:"colour" binding:"omitempty,max=50"`
	UnitPrice     *float64 `json:"unit_price" binding:"omitempty,min=0"`
	QuantityAlert *float64 `json:"quantity_alert" binding:"omitempty,min=0"`
	Notes         *string  `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
