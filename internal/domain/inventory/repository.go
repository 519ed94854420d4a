package inventory

import (
	"context"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryItemRepository persists catalog items. FindByID and Delete
// return shared.ErrNotFound for an unknown id; Save upserts.
type InventoryItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryItem, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, item *InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}
