package handler

import (
	inventoryapp "github.com/erp/billing/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryItemHandler handles inventory item endpoints
type InventoryItemHandler struct {
	BaseHandler
	service *inventoryapp.InventoryItemService
}

// NewInventoryItemHandler creates a new InventoryItemHandler
func NewInventoryItemHandler(service *inventoryapp.InventoryItemService) *InventoryItemHandler {
	return &InventoryItemHandler{service: service}
}

// Create handles POST /inventory-items
func (h *InventoryItemHandler) Create(c *gin.Context) {
	var req inventoryapp.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID handles GET /inventory-items/:id
func (h *InventoryItemHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List handles GET /inventory-items
func (h *InventoryItemHandler) List(c *gin.Context) {
	var filter inventoryapp.InventoryItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update handles PUT and PATCH /inventory-items/:id with the full item. Documents already issued keep
// the values they were created with.
func (h *InventoryItemHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete handles DELETE /inventory-items/:id
func (h *InventoryItemHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
