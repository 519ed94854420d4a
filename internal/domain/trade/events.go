package trade

import (
	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder = "SalesOrder"
	AggregateTypeInvoice    = "Invoice"
)

// Event type constants
const (
	EventTypeSalesOrderCreated  = "SalesOrderCreated"
	EventTypeSalesOrderAccepted = "SalesOrderAccepted"
	EventTypeSalesOrderRejected = "SalesOrderRejected"
	EventTypeInvoiceCreated     = "InvoiceCreated"
	EventTypeInvoicePaid        = "InvoicePaid"
	EventTypeInvoiceCancelled   = "InvoiceCancelled"
)

// SalesOrderCreatedEvent is raised when a new sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ItemCount   int       `json:"item_count"`
	Total       int64     `json:"total"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, order.ID),
		OrderNumber:     order.DisplayNumber(),
		CustomerID:      order.CustomerID,
		ItemCount:       len(order.Items),
		Total:           order.Total.Minor(),
	}
}

// SalesOrderStatusChangedEvent is raised when an order is accepted or rejected
type SalesOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string           `json:"order_number"`
	FromStatus  SalesOrderStatus `json:"from_status"`
	ToStatus    SalesOrderStatus `json:"to_status"`
	Total       int64            `json:"total"`
}

// NewSalesOrderStatusChangedEvent creates the event matching the order's new status
func NewSalesOrderStatusChangedEvent(order *SalesOrder, from SalesOrderStatus) *SalesOrderStatusChangedEvent {
	eventType := EventTypeSalesOrderAccepted
	if order.Status == SalesOrderStatusRejected {
		eventType = EventTypeSalesOrderRejected
	}
	return &SalesOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSalesOrder, order.ID),
		OrderNumber:     order.DisplayNumber(),
		FromStatus:      from,
		ToStatus:        order.Status,
		Total:           order.Total.Minor(),
	}
}

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string     `json:"invoice_number"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	SalesOrderID  *uuid.UUID `json:"sales_order_id,omitempty"`
	Total         int64      `json:"total"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.DisplayNumber(),
		CustomerID:      inv.CustomerID,
		SalesOrderID:    inv.SalesOrderID,
		Total:           inv.Total.Minor(),
	}
}

// InvoiceStatusChangedEvent is raised when an invoice is paid or cancelled
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string        `json:"invoice_number"`
	FromStatus    InvoiceStatus `json:"from_status"`
	ToStatus      InvoiceStatus `json:"to_status"`
	WasOverdue    bool          `json:"was_overdue"`
	Total         int64         `json:"total"`
}

// NewInvoiceStatusChangedEvent creates the event matching the invoice's new status
func NewInvoiceStatusChangedEvent(inv *Invoice, from InvoiceStatus, wasOverdue bool) *InvoiceStatusChangedEvent {
	eventType := EventTypeInvoicePaid
	if inv.Status == InvoiceStatusCancelled {
		eventType = EventTypeInvoiceCancelled
	}
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.DisplayNumber(),
		FromStatus:      from,
		ToStatus:        inv.Status,
		WasOverdue:      wasOverdue,
		Total:           inv.Total.Minor(),
	}
}
