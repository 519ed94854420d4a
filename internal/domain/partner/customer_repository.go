package partner

import (
	"context"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository persists customers. Lookups of a missing id return
// shared.ErrNotFound.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// ExistsByID answers reference checks made while building documents
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, customer *Customer) error
}
