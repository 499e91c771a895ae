package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mabatisales/mabati-api/internal/application/service"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/request"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/response"
	"github.com/mabatisales/mabati-api/pkg/money"
	"github.com/mabatisales/mabati-api/pkg/pagination"
)

// StockHandler handles stock movement ledger HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RecordMovement handles POST /stock/movements
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req request.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	movementType, ok := enum.ParseMovementType(req.MovementType)
	if !ok {
		response.BadRequest(c, "Unknown movement type")
		return
	}

	movement, err := h.stockService.RecordMovement(c.Request.Context(), &service.MovementInput{
		ProductID:     req.ProductID,
		MovementType:  movementType,
		QuantityDelta: money.QuantityFromFloat(req.QuantityDelta),
		Actor:         req.Actor,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Movement recorded successfully", movement)
}

// ReverseMovement handles POST /stock/movements/:id/reverse
func (h *StockHandler) ReverseMovement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid movement ID")
		return
	}

	var req request.ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	compensation, err := h.stockService.ReverseMovement(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Movement reversed successfully", compensation)
}

// ListByOrder handles GET /orders/:id/movements
func (h *StockHandler) ListByOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	movements, err := h.stockService.MovementsForOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Movements retrieved successfully", movements)
}

// ListByProduct handles GET /products/:id/movements
func (h *StockHandler) ListByProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()

	result, err := h.stockService.MovementsForProduct(c.Request.Context(), id, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Movements retrieved successfully", result)
}
