package request

import (
	"time"

	"github.com/google/uuid"
)

// OrderItemRequest represents a line item in an order request
type OrderItemRequest struct {
	ProductID       uuid.UUID `json:"product_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required,min=1"`
	Length          *float64  `json:"length" binding:"omitempty,gt=0"`
	Width           *float64  `json:"width" binding:"omitempty,gt=0"`
	UnitPrice       *float64  `json:"unit_price" binding:"omitempty,min=0"`
	DiscountPercent float64   `json:"discount_percent" binding:"min=0,max=100"`
}

// PaymentRequest represents a payment to record
type PaymentRequest struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Method     string  `json:"method" binding:"required,oneof=CASH CARD BANK_TRANSFER MOBILE_MONEY MIXED"`
	Reference  *string `json:"reference" binding:"omitempty,max=255"`
	Notes      *string `json:"notes"`
	ReceivedBy *string `json:"received_by" binding:"omitempty,max=255"`
}

// LayawayRequest represents the layaway plan parameters
type LayawayRequest struct {
	DepositAmount        float64   `json:"deposit_amount" binding:"min=0"`
	NumberOfInstallments int       `json:"number_of_installments" binding:"required,min=1"`
	FrequencyDays        int       `json:"frequency_days" binding:"required,min=1"`
	FirstInstallmentDate time.Time `json:"first_installment_date" binding:"required"`
}

// CreateOrderRequest represents an order creation request. The order
// type decides which optional blocks are required.
type CreateOrderRequest struct {
	CustomerID             *uuid.UUID         `json:"customer_id"`
	Notes                  *string            `json:"notes"`
	Items                  []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Payment                *PaymentRequest    `json:"payment"`
	ExpectedCollectionDate *time.Time         `json:"expected_collection_date"`
	Layaway                *LayawayRequest    `json:"layaway"`
	Actor                  *string            `json:"actor" binding:"omitempty,max=255"`
}

// ConvertQuotationRequest represents a quotation conversion request
type ConvertQuotationRequest struct {
	TargetType             string             `json:"target_type" binding:"required,oneof=IMMEDIATE_SALE FUTURE_COLLECTION LAYAWAY"`
	Items                  []OrderItemRequest `json:"items" binding:"omitempty,dive"`
	Payment                *PaymentRequest    `json:"payment"`
	ExpectedCollectionDate *time.Time         `json:"expected_collection_date"`
	Layaway                *LayawayRequest    `json:"layaway"`
	Actor                  *string            `json:"actor" binding:"omitempty,max=255"`
}

// ReverseRequest carries the reason for a reversal
type ReverseRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// OrderFilterRequest represents order filter parameters
type OrderFilterRequest struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	OrderType  string `form:"order_type"`
	Search     string `form:"search"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
