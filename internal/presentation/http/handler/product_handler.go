package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mabatisales/mabati-api/internal/application/service"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/request"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/response"
	"github.com/mabatisales/mabati-api/pkg/pagination"
)

// ProductHandler handles product catalogue HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	branchID := GetBranchID(c)
	if branchID == nil {
		response.BadRequest(c, "Branch not resolved")
		return
	}

	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pricingMode := enum.PricingModePiece
	if req.PricingMode != "" {
		mode, ok := enum.ParsePricingMode(req.PricingMode)
		if !ok {
			response.BadRequest(c, "Unknown pricing mode")
			return
		}
		pricingMode = mode
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		BranchID:      *branchID,
		Name:          req.Name,
		Code:          req.Code,
		Profile:       req.Profile,
		Gauge:         req.Gauge,
		Colour:        req.Colour,
		PricingMode:   pricingMode,
		UnitPrice:     req.UnitPrice,
		Quantity:      req.Quantity,
		QuantityAlert: req.QuantityAlert,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles PATCH /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &service.UpdateProductInput{
		Name:          req.Name,
		Profile:       req.Profile,
		Gauge:         req.Gauge,
		Colour:        req.Colour,
		UnitPrice:     req.UnitPrice,
		QuantityAlert: req.QuantityAlert,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var req request.ProductFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    req.Page,
			PerPage: req.PerPage,
		},
		BranchID:  GetBranchID(c),
		Search:    req.Search,
		LowStock:  req.LowStock,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	params.Pagination.Validate()

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}
