package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mabatisales/mabati-api/internal/application/service"
	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/request"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/response"
	"github.com/mabatisales/mabati-api/pkg/pagination"
)

// OrderHandler handles order lifecycle HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type createOrderFn func(ctx context.Context, input *service.CreateOrderInput) (*entity.Order, error)

// CreateQuotation handles POST /orders/quotations
func (h *OrderHandler) CreateQuotation(c *gin.Context) {
	h.create(c, h.orderService.CreateQuotation, "Quotation created successfully")
}

// CreateImmediateSale handles POST /orders/sales
func (h *OrderHandler) CreateImmediateSale(c *gin.Context) {
	h.create(c, h.orderService.CreateImmediateSale, "Sale created successfully")
}

// CreateFutureCollection handles POST /orders/future-collections
func (h *OrderHandler) CreateFutureCollection(c *gin.Context) {
	h.create(c, h.orderService.CreateFutureCollection, "Order created successfully")
}

// CreateLayaway handles POST /orders/layaways
func (h *OrderHandler) CreateLayaway(c *gin.Context) {
	h.create(c, h.orderService.CreateLayaway, "Layaway created successfully")
}

func (h *OrderHandler) create(c *gin.Context, createFn createOrderFn, message string) {
	branchID := GetBranchID(c)
	if branchID == nil {
		response.BadRequest(c, "Branch not resolved")
		return
	}

	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input, err := toCreateOrderInput(*branchID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := createFn(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, message, order)
}

func toCreateOrderInput(branchID uuid.UUID, req *request.CreateOrderRequest) (*service.CreateOrderInput, error) {
	input := &service.CreateOrderInput{
		BranchID:               branchID,
		CustomerID:             req.CustomerID,
		Notes:                  req.Notes,
		Items:                  toItemInputs(req.Items),
		ExpectedCollectionDate: req.ExpectedCollectionDate,
		Actor:                  req.Actor,
	}

	if req.Payment != nil {
		payment, err := toPaymentInput(req.Payment)
		if err != nil {
			return nil, err
		}
		input.Payment = payment
	}

	if req.Layaway != nil {
		input.Layaway = &service.LayawayInput{
			DepositAmount:        req.Layaway.DepositAmount,
			NumberOfInstallments: req.Layaway.NumberOfInstallments,
			FrequencyDays:        req.Layaway.FrequencyDays,
			FirstInstallmentDate: req.Layaway.FirstInstallmentDate,
		}
	}

	return input, nil
}

func toItemInputs(items []request.OrderItemRequest) []service.OrderItemInput {
	inputs := make([]service.OrderItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.OrderItemInput{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			Length:          item.Length,
			Width:           item.Width,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
		})
	}
	return inputs
}

func toPaymentInput(req *request.PaymentRequest) (*service.PaymentInput, error) {
	method, ok := enum.ParsePaymentMethod(req.Method)
	if !ok {
		return nil, &entity.ValidationError{Field: "method", Message: "unknown payment method"}
	}
	return &service.PaymentInput{
		Amount:     req.Amount,
		Method:     method,
		Reference:  req.Reference,
		Notes:      req.Notes,
		ReceivedBy: req.ReceivedBy,
	}, nil
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		BranchID:  GetBranchID(c),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	params.Pagination.Validate()

	if statusStr := c.Query("status"); statusStr != "" {
		if status, ok := enum.ParseOrderStatus(statusStr); ok {
			params.Status = &status
		}
	}
	if typeStr := c.Query("order_type"); typeStr != "" {
		if orderType, ok := enum.ParseOrderType(typeStr); ok {
			params.OrderType = &orderType
		}
	}
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}
	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}
	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// ApplyPayment handles POST /orders/:id/payments
func (h *OrderHandler) ApplyPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input, err := toPaymentInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.ApplyPayment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", order)
}

// ReversePayment handles POST /payments/:id/reverse
func (h *OrderHandler) ReversePayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req request.ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.ReversePayment(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment reversed successfully", order)
}

// MarkReady handles POST /orders/:id/ready
func (h *OrderHandler) MarkReady(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.MarkReadyForCollection(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order marked ready for collection", order)
}

// Complete handles POST /orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.CompleteCollection(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order completed successfully", order)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}

// Reverse handles POST /orders/:id/reverse
func (h *OrderHandler) Reverse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.ReverseOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order reversed successfully", order)
}

// Convert handles POST /orders/:id/convert
func (h *OrderHandler) Convert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.ConvertQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	targetType, typeOK := enum.ParseOrderType(req.TargetType)
	if !typeOK {
		response.BadRequest(c, "Unknown target order type")
		return
	}

	input := &service.ConvertQuotationInput{
		TargetType:             targetType,
		Items:                  toItemInputs(req.Items),
		ExpectedCollectionDate: req.ExpectedCollectionDate,
		Actor:                  req.Actor,
	}
	if req.Payment != nil {
		payment, err := toPaymentInput(req.Payment)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.Payment = payment
	}
	if req.Layaway != nil {
		input.Layaway = &service.LayawayInput{
			DepositAmount:        req.Layaway.DepositAmount,
			NumberOfInstallments: req.Layaway.NumberOfInstallments,
			FrequencyDays:        req.Layaway.FrequencyDays,
			FirstInstallmentDate: req.Layaway.FirstInstallmentDate,
		}
	}

	order, err := h.orderService.ConvertQuotation(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation converted successfully", order)
}
