package persistence

import (
	"context"

	"github.com/erp/billing/internal/domain/inventory"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements inventory.InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID loads one catalog item. It also serves as the catalog lookup for
// line resolution.
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	row, err := findByID[models.InventoryItemModel](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return row.ToDomain()
}

func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryItem, error) {
	rows, err := listRows[models.InventoryItemModel](ctx, r.db, filter, inventoryItemSort, inventorySearch(filter.Search))
	if err != nil {
		return nil, err
	}
	return toDomain(rows, (*models.InventoryItemModel).ToDomain)
}

func (r *GormInventoryItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return countRows[models.InventoryItemModel](ctx, r.db, inventorySearch(filter.Search))
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	model := models.InventoryItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an inventory item. Documents keep their snapshots.
func (r *GormInventoryItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func inventorySearch(search string) scope {
	return func(q *gorm.DB) *gorm.DB {
		if search == "" {
			return q
		}
		pattern := likePattern(search)
		return q.Where("LOWER(name) LIKE ? OR LOWER(classification_code) LIKE ?", pattern, pattern)
	}
}

var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
