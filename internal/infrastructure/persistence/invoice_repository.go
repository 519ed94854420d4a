package persistence

import (
	"context"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/erp/billing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements trade.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads an invoice with its items in submission order
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Invoice, error) {
	row, err := findByID[models.InvoiceModel](ctx, r.db, id, preloadLines)
	if err != nil {
		return nil, err
	}
	return row.ToDomain()
}

func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Invoice, error) {
	rows, err := listRows[models.InvoiceModel](ctx, r.db, filter, invoiceSort, invoiceFilter(filter), preloadLines)
	if err != nil {
		return nil, err
	}
	return toDomain(rows, (*models.InvoiceModel).ToDomain)
}

func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return countRows[models.InvoiceModel](ctx, r.db, invoiceFilter(filter))
}

// Create writes the invoice header and its items in one transaction
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *trade.Invoice) error {
	row := models.InvoiceModelFromDomain(invoice)
	return createDocument(ctx, r.db, row, row.Items)
}

// UpdateStatus writes the new stored status only if it is still from
func (r *GormInvoiceRepository) UpdateStatus(ctx context.Context, invoice *trade.Invoice, from trade.InvoiceStatus) error {
	return compareAndSetStatus(ctx, r.db, &models.InvoiceModel{}, invoice.ID, string(from), string(invoice.Status), invoice.UpdatedAt)
}

// invoiceFilter understands the due date bounds used to split stored PENDING
// invoices into overdue and not yet due
func invoiceFilter(filter shared.Filter) scope {
	return func(q *gorm.DB) *gorm.DB {
		for key, value := range filter.Filters {
			switch key {
			case trade.FilterStatus:
				q = q.Where("status = ?", value)
			case trade.FilterCustomerID:
				q = q.Where("customer_id = ?", value)
			case trade.FilterSalesOrderID:
				q = q.Where("sales_order_id = ?", value)
			case trade.FilterDueBefore:
				q = q.Where("due_date < ?", value)
			case trade.FilterDueOnOrAfter:
				q = q.Where("due_date >= ?", value)
			}
		}
		if filter.Search != "" {
			q = q.Where("LOWER(notes) LIKE ?", likePattern(filter.Search))
		}
		return q
	}
}

var _ trade.InvoiceRepository = (*GormInvoiceRepository)(nil)
