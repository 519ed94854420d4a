package trade

import (
	"context"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter keys understood by document repositories
const (
	FilterStatus       = "status"
	FilterCustomerID   = "customer_id"
	FilterSalesOrderID = "sales_order_id"
	FilterDueBefore    = "due_before"     // time.Time, exclusive
	FilterDueOnOrAfter = "due_on_or_after" // time.Time, inclusive
)

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByID finds a sales order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindAll finds sales orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)

	// Count counts sales orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create writes the order header and all its items atomically
	Create(ctx context.Context, order *SalesOrder) error

	// UpdateStatus moves the order from one status to another only if it is
	// still in `from`. Returns shared.ErrConcurrencyConflict when it is not,
	// and shared.ErrNotFound when the order does not exist.
	UpdateStatus(ctx context.Context, order *SalesOrder, from SalesOrderStatus) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll finds invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create writes the invoice header and all its items atomically
	Create(ctx context.Context, invoice *Invoice) error

	// UpdateStatus moves the invoice from one stored status to another only if
	// it is still in `from`, with the same error contract as SalesOrderRepository
	UpdateStatus(ctx context.Context, invoice *Invoice, from InvoiceStatus) error
}
