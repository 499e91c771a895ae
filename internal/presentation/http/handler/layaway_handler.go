package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mabatisales/mabati-api/internal/application/service"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/request"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/response"
)

// LayawayHandler handles layaway schedule HTTP requests
type LayawayHandler struct {
	layawayService *service.LayawayService
}

// NewLayawayHandler creates a new layaway handler
func NewLayawayHandler(layawayService *service.LayawayService) *LayawayHandler {
	return &LayawayHandler{layawayService: layawayService}
}

// PayInstallment handles POST /layaway/installments/:id/payments
func (h *LayawayHandler) PayInstallment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid installment ID")
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

	order, err := h.layawayService.RecordInstallmentPayment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installment payment recorded successfully", order)
}

// GetSchedule handles GET /orders/:id/layaway
func (h *LayawayHandler) GetSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	plan, err := h.layawayService.GetSchedule(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Schedule retrieved successfully", plan)
}

// GetSummary handles GET /orders/:id/layaway/summary
func (h *LayawayHandler) GetSummary(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	summary, err := h.layawayService.GetPaymentSummary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Summary retrieved successfully", summary)
}

// GetOverdue handles GET /orders/:id/layaway/overdue
func (h *LayawayHandler) GetOverdue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	installments, err := h.layawayService.OverdueInstallments(c.Request.Context(), id, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overdue installments retrieved successfully", installments)
}

// ListOverdue handles GET /layaway/overdue
func (h *LayawayHandler) ListOverdue(c *gin.Context) {
	plans, err := h.layawayService.ListOverduePlans(c.Request.Context(), GetBranchID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overdue plans retrieved successfully", plans)
}
