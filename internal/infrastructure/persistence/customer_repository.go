package persistence

import (
	"context"

	"github.com/erp/billing/internal/domain/partner"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository stores customers. Documents only ever ask whether a
// customer exists; they never read customer fields.
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	row, err := findByID[models.CustomerModel](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// ExistsByID probes for the id without loading the row
func (r *GormCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := countRows[models.CustomerModel](ctx, r.db, func(q *gorm.DB) *gorm.DB {
		return q.Where("id = ?", id)
	})
	return n > 0, err
}

func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	rows, err := listRows[models.CustomerModel](ctx, r.db, filter, customerSort, customerSearch(filter.Search))
	if err != nil {
		return nil, err
	}
	return toDomain(rows, func(m *models.CustomerModel) (*partner.Customer, error) {
		return m.ToDomain(), nil
	})
}

func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return countRows[models.CustomerModel](ctx, r.db, customerSearch(filter.Search))
}

// Save upserts the customer row
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(customer)).Error
}

func customerSearch(search string) scope {
	return func(q *gorm.DB) *gorm.DB {
		if search == "" {
			return q
		}
		pattern := likePattern(search)
		return q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
