package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// scope narrows a query, e.g. a list filter or an association preload
type scope = func(*gorm.DB) *gorm.DB

// findByID loads the row of M with the given id.
// A missing row is reported as shared.ErrNotFound.
func findByID[M any](ctx context.Context, db *gorm.DB, id uuid.UUID, scopes ...scope) (*M, error) {
	var row M
	err := db.WithContext(ctx).Scopes(scopes...).Where("id = ?", id).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, shared.ErrNotFound
	case err != nil:
		return nil, err
	}
	return &row, nil
}

// listRows loads one sorted page of M rows
func listRows[M any](ctx context.Context, db *gorm.DB, filter shared.Filter, sort sortColumns, scopes ...scope) ([]M, error) {
	var rows []M
	query := applyPaging(db.WithContext(ctx).Model(new(M)).Scopes(scopes...), filter, sort)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func countRows[M any](ctx context.Context, db *gorm.DB, scopes ...scope) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(new(M)).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// toDomain converts every row, stopping at the first row that does not map
func toDomain[M any, D any](rows []M, convert func(*M) (*D, error)) ([]D, error) {
	out := make([]D, len(rows))
	for i := range rows {
		d, err := convert(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = *d
	}
	return out, nil
}

// createDocument inserts a document header and its lines in one transaction.
// A duplicate document number surfaces as shared.ErrAlreadyExists.
func createDocument[H any, L any](ctx context.Context, db *gorm.DB, header *H, lines []L) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(header).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", shared.ErrAlreadyExists, err)
	}
	return err
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", orderedLines)
}
