package persistence

import (
	"context"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/erp/billing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID loads an order with its items in submission order
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	row, err := findByID[models.SalesOrderModel](ctx, r.db, id, preloadLines)
	if err != nil {
		return nil, err
	}
	return row.ToDomain()
}

func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	rows, err := listRows[models.SalesOrderModel](ctx, r.db, filter, salesOrderSort, salesOrderFilter(filter), preloadLines)
	if err != nil {
		return nil, err
	}
	return toDomain(rows, (*models.SalesOrderModel).ToDomain)
}

func (r *GormSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return countRows[models.SalesOrderModel](ctx, r.db, salesOrderFilter(filter))
}

// Create writes the order header and its items in one transaction
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	row := models.SalesOrderModelFromDomain(order)
	return createDocument(ctx, r.db, row, row.Items)
}

// UpdateStatus writes the new status only if the stored status is still from
func (r *GormSalesOrderRepository) UpdateStatus(ctx context.Context, order *trade.SalesOrder, from trade.SalesOrderStatus) error {
	return compareAndSetStatus(ctx, r.db, &models.SalesOrderModel{}, order.ID, string(from), string(order.Status), order.UpdatedAt)
}

func salesOrderFilter(filter shared.Filter) scope {
	return func(q *gorm.DB) *gorm.DB {
		for key, value := range filter.Filters {
			switch key {
			case trade.FilterStatus:
				q = q.Where("status = ?", value)
			case trade.FilterCustomerID:
				q = q.Where("customer_id = ?", value)
			}
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where("LOWER(notes) LIKE ? OR LOWER(place_of_supply) LIKE ?", pattern, pattern)
		}
		return q
	}
}

var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
