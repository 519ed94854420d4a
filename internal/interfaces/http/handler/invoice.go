package handler

import (
	"encoding/json"

	tradeapp "github.com/erp/billing/internal/application/trade"
	"github.com/erp/billing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	service *tradeapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service *tradeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// invoiceSource tells the two create bodies apart
type invoiceSource struct {
	SalesOrderID json.RawMessage `json:"sales_order_id"`
	Items        json.RawMessage `json:"items"`
}

// Create handles POST /invoices. A body with sales_order_id invoices that
// accepted order; a body with items invoices the customer directly.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var source invoiceSource
	if err := c.ShouldBindBodyWith(&source, binding.JSON); err != nil {
		h.BindError(c, err)
		return
	}

	fromOrder := len(source.SalesOrderID) > 0 && string(source.SalesOrderID) != "null"
	if fromOrder && len(source.Items) > 0 && string(source.Items) != "null" {
		h.Error(c, dto.ErrCodeInvalidInput,
			"Provide either sales_order_id or items, not both")
		return
	}

	var (
		invoice *tradeapp.InvoiceResponse
		err     error
	)
	if fromOrder {
		var req tradeapp.CreateInvoiceFromOrderInput
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			h.BindError(c, err)
			return
		}
		invoice, err = h.service.CreateFromOrder(c.Request.Context(), req)
	} else {
		var req tradeapp.CreateInvoiceInput
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			h.BindError(c, err)
			return
		}
		invoice, err = h.service.CreateDirect(c.Request.Context(), req)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID handles GET /invoices/:id. The status is the effective one.
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter tradeapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	invoices, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Transition handles PATCH /invoices/:id/status/:status
func (h *InvoiceHandler) Transition(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.service.Transition(c.Request.Context(), id, c.Param("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
