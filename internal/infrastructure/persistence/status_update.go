package persistence

import (
	"context"
	"time"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// compareAndSetStatus moves a document row from one status to another in a
// single conditional UPDATE. When no row matched, a follow-up count tells a
// missing document apart from one whose status was changed concurrently.
func compareAndSetStatus(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, from, to string, updatedAt time.Time) error {
	result := db.WithContext(ctx).Model(model).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"version":    gorm.Expr("version + 1"),
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}
