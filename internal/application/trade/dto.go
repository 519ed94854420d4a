package trade

import (
	"errors"
	"time"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ==================== Line item DTOs ====================

// LineItemInput requests one line on a new document. Unset optional fields
// take the inventory item's current values; an explicit zero is kept.
type LineItemInput struct {
	InventoryItemID    uuid.UUID        `json:"inventory_item_id" binding:"required"`
	Quantity           int64            `json:"quantity"`
	UnitPrice          *int64           `json:"unit_price"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
	ClassificationCode *string          `json:"classification_code" binding:"omitempty,max=20"`
}

// LineItemResponse represents a document line in API responses
type LineItemResponse struct {
	ID                 uuid.UUID           `json:"id"`
	InventoryItemID    uuid.UUID           `json:"inventory_item_id"`
	Quantity           int64               `json:"quantity"`
	UnitPrice          valueobject.Money   `json:"unit_price"`
	TaxRate            valueobject.TaxRate `json:"tax_rate"`
	ClassificationCode string              `json:"classification_code,omitempty"`
	Amount             valueobject.Money   `json:"amount"`
	TaxAmount          valueobject.Money   `json:"tax_amount"`
	LineTotal          valueobject.Money   `json:"line_total"`
}

// ==================== Sales Order DTOs ====================

// CreateSalesOrderInput represents a request to create a sales order
type CreateSalesOrderInput struct {
	CustomerID    uuid.UUID       `json:"customer_id" binding:"required"`
	Items         []LineItemInput `json:"items" binding:"required,min=1,dive"`
	PlaceOfSupply string          `json:"place_of_supply" binding:"max=100"`
	Notes         string          `json:"notes" binding:"max=2000"`
	Terms         string          `json:"terms" binding:"max=2000"`
}

// SalesOrderListFilter represents filter options for sales order lists
type SalesOrderListFilter struct {
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING ACCEPTED REJECTED"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=created_at number total"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"number"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	Status        string             `json:"status"`
	Items         []LineItemResponse `json:"items"`
	SubTotal      valueobject.Money  `json:"sub_total"`
	TaxAmount     valueobject.Money  `json:"tax_amount"`
	Total         valueobject.Money  `json:"total"`
	PlaceOfSupply string             `json:"place_of_supply,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Terms         string             `json:"terms,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Version       int                `json:"version"`
}

// SalesOrderListItemResponse represents a sales order in list responses
type SalesOrderListItemResponse struct {
	ID         uuid.UUID         `json:"id"`
	Number     string            `json:"number"`
	CustomerID uuid.UUID         `json:"customer_id"`
	Status     string            `json:"status"`
	ItemCount  int               `json:"item_count"`
	Total      valueobject.Money `json:"total"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ==================== Invoice DTOs ====================

// CreateInvoiceInput represents a request to invoice a customer directly.
// Missing dates default to today and today plus the configured payment terms.
type CreateInvoiceInput struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	Items      []LineItemInput `json:"items" binding:"required,min=1,dive"`
	IssueDate  string          `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate    string          `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes      string          `json:"notes" binding:"max=2000"`
	Terms      string          `json:"terms" binding:"max=2000"`
}

// CreateInvoiceFromOrderInput represents a request to invoice an accepted sales order
type CreateInvoiceFromOrderInput struct {
	SalesOrderID uuid.UUID `json:"sales_order_id" binding:"required"`
	IssueDate    string    `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate      string    `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes        string    `json:"notes" binding:"max=2000"`
	Terms        string    `json:"terms" binding:"max=2000"`
}

// InvoiceListFilter represents filter options for invoice lists.
// Status OVERDUE selects pending invoices past their due date.
type InvoiceListFilter struct {
	CustomerID   string `form:"customer_id" binding:"omitempty,uuid"`
	SalesOrderID string `form:"sales_order_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=PENDING PAID OVERDUE CANCELLED"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by" binding:"omitempty,oneof=created_at number total due_date"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceResponse represents an invoice in API responses. Status is the
// effective status on the day of the request.
type InvoiceResponse struct {
	ID           uuid.UUID          `json:"id"`
	Number       string             `json:"number"`
	CustomerID   uuid.UUID          `json:"customer_id"`
	SalesOrderID *uuid.UUID         `json:"sales_order_id,omitempty"`
	Status       string             `json:"status"`
	IssueDate    string             `json:"issue_date"`
	DueDate      string             `json:"due_date"`
	Items        []LineItemResponse `json:"items"`
	SubTotal     valueobject.Money  `json:"sub_total"`
	TaxAmount    valueobject.Money  `json:"tax_amount"`
	Total        valueobject.Money  `json:"total"`
	Notes        string             `json:"notes,omitempty"`
	Terms        string             `json:"terms,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Version      int                `json:"version"`
}

// InvoiceListItemResponse represents an invoice in list responses
type InvoiceListItemResponse struct {
	ID           uuid.UUID         `json:"id"`
	Number       string            `json:"number"`
	CustomerID   uuid.UUID         `json:"customer_id"`
	SalesOrderID *uuid.UUID        `json:"sales_order_id,omitempty"`
	Status       string            `json:"status"`
	IssueDate    string            `json:"issue_date"`
	DueDate      string            `json:"due_date"`
	Total        valueobject.Money `json:"total"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ==================== Conversion functions ====================

// toLineRequests converts wire line inputs into resolver requests
func toLineRequests(inputs []LineItemInput) ([]trade.LineRequest, error) {
	requests := make([]trade.LineRequest, len(inputs))
	for i, in := range inputs {
		req := trade.LineRequest{
			InventoryItemID: in.InventoryItemID,
			LineOverrides: trade.LineOverrides{
				Quantity:           in.Quantity,
				ClassificationCode: in.ClassificationCode,
			},
		}
		if in.UnitPrice != nil {
			price, err := valueobject.NewMoney(*in.UnitPrice)
			if err != nil {
				return nil, lineInputError(i, err)
			}
			req.UnitPrice = &price
		}
		if in.TaxRate != nil {
			rate, err := valueobject.NewTaxRate(*in.TaxRate)
			if err != nil {
				return nil, lineInputError(i, err)
			}
			req.TaxRate = &rate
		}
		requests[i] = req
	}
	return requests, nil
}

func lineInputError(index int, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.WithDetail("line", index+1)
	}
	return err
}

// ToLineItemResponses converts domain line items to responses
func ToLineItemResponses(items []trade.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = LineItemResponse{
			ID:                 item.ID,
			InventoryItemID:    item.InventoryItemID,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			TaxRate:            item.TaxRate,
			ClassificationCode: item.ClassificationCode,
			Amount:             item.Amount,
			TaxAmount:          item.TaxAmount,
			LineTotal:          item.LineTotal,
		}
	}
	return responses
}

// ToSalesOrderResponse converts a domain SalesOrder to SalesOrderResponse
func ToSalesOrderResponse(order *trade.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		ID:            order.ID,
		Number:        order.DisplayNumber(),
		CustomerID:    order.CustomerID,
		Status:        order.Status.String(),
		Items:         ToLineItemResponses(order.Items),
		SubTotal:      order.SubTotal,
		TaxAmount:     order.TaxAmount,
		Total:         order.Total,
		PlaceOfSupply: order.PlaceOfSupply,
		Notes:         order.Notes,
		Terms:         order.Terms,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Version:       order.Version,
	}
}

// ToSalesOrderListItemResponses converts domain orders to list responses
func ToSalesOrderListItemResponses(orders []trade.SalesOrder) []SalesOrderListItemResponse {
	responses := make([]SalesOrderListItemResponse, len(orders))
	for i := range orders {
		o := &orders[i]
		responses[i] = SalesOrderListItemResponse{
			ID:         o.ID,
			Number:     o.DisplayNumber(),
			CustomerID: o.CustomerID,
			Status:     o.Status.String(),
			ItemCount:  len(o.Items),
			Total:      o.Total,
			CreatedAt:  o.CreatedAt,
		}
	}
	return responses
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse as seen on today
func ToInvoiceResponse(inv *trade.Invoice, today time.Time) InvoiceResponse {
	return InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.DisplayNumber(),
		CustomerID:   inv.CustomerID,
		SalesOrderID: inv.SalesOrderID,
		Status:       inv.EffectiveStatus(today).String(),
		IssueDate:    inv.IssueDate.Format(DateLayout),
		DueDate:      inv.DueDate.Format(DateLayout),
		Items:        ToLineItemResponses(inv.Items),
		SubTotal:     inv.SubTotal,
		TaxAmount:    inv.TaxAmount,
		Total:        inv.Total,
		Notes:        inv.Notes,
		Terms:        inv.Terms,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
		Version:      inv.Version,
	}
}

// ToInvoiceListItemResponses converts domain invoices to list responses
func ToInvoiceListItemResponses(invoices []trade.Invoice, today time.Time) []InvoiceListItemResponse {
	responses := make([]InvoiceListItemResponse, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		responses[i] = InvoiceListItemResponse{
			ID:           inv.ID,
			Number:       inv.DisplayNumber(),
			CustomerID:   inv.CustomerID,
			SalesOrderID: inv.SalesOrderID,
			Status:       inv.EffectiveStatus(today).String(),
			IssueDate:    inv.IssueDate.Format(DateLayout),
			DueDate:      inv.DueDate.Format(DateLayout),
			Total:        inv.Total,
			CreatedAt:    inv.CreatedAt,
		}
	}
	return responses
}
