package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/billing/internal/domain/trade"
	"gorm.io/gorm"
)

// nextSequenceSQL increments a document counter atomically, creating it on
// first use. It runs outside any document transaction so a number is consumed
// even when the document insert later fails.
const nextSequenceSQL = `INSERT INTO document_sequences (doc_type, last_value, updated_at) VALUES (?, 1, ?)
ON CONFLICT (doc_type) DO UPDATE SET last_value = document_sequences.last_value + 1, updated_at = excluded.updated_at
RETURNING last_value`

// GormNumberAllocator implements trade.NumberAllocator on the document_sequences table
type GormNumberAllocator struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormNumberAllocator creates a new GormNumberAllocator
func NewGormNumberAllocator(db *gorm.DB) *GormNumberAllocator {
	return &GormNumberAllocator{db: db, now: time.Now}
}

// NextNumber returns the next number of the given document type
func (a *GormNumberAllocator) NextNumber(ctx context.Context, docType trade.DocumentType) (int64, error) {
	if !docType.IsValid() {
		return 0, fmt.Errorf("unknown document type %q", docType)
	}
	var next int64
	if err := a.db.WithContext(ctx).Raw(nextSequenceSQL, string(docType), a.now().UTC()).Scan(&next).Error; err != nil {
		return 0, fmt.Errorf("allocate %s number: %w", docType, err)
	}
	if next < 1 {
		return 0, fmt.Errorf("allocate %s number: sequence returned %d", docType, next)
	}
	return next, nil
}

var _ trade.NumberAllocator = (*GormNumberAllocator)(nil)
