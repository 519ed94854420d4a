package handler

import (
	tradeapp "github.com/erp/billing/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SalesOrderHandler handles sales order endpoints
type SalesOrderHandler struct {
	BaseHandler
	service *tradeapp.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(service *tradeapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{service: service}
}

// Create handles POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSalesOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID handles GET /sales-orders/:id
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter tradeapp.SalesOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Transition handles PATCH /sales-orders/:id/status/:status
func (h *SalesOrderHandler) Transition(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.Transition(c.Request.Context(), id, c.Param("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
