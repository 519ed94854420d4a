package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/billing/internal/domain/inventory"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ErrInventoryItemNotFound is returned when a line references an unknown item
var ErrInventoryItemNotFound = inventory.ErrItemNotFound

// LineOverrides are caller-supplied values that take precedence over the
// catalog. A nil pointer means "unset"; a pointer to zero is an explicit zero.
type LineOverrides struct {
	Quantity           int64
	UnitPrice          *valueobject.Money
	TaxRate            *valueobject.TaxRate
	ClassificationCode *string
}

// LineRequest asks for one line on a new document
type LineRequest struct {
	InventoryItemID uuid.UUID
	LineOverrides
}

// CatalogLookup resolves inventory items referenced by line requests
type CatalogLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error)
}

// ResolveLine snapshots an inventory item into a line item, applying overrides.
// item is nil when the reference did not resolve.
func ResolveLine(item *inventory.InventoryItem, overrides LineOverrides) (LineItem, error) {
	if item == nil {
		return LineItem{}, ErrInventoryItemNotFound
	}
	if overrides.Quantity < 1 {
		return LineItem{}, invalidQuantity(overrides.Quantity)
	}

	unitPrice := item.UnitPrice
	if overrides.UnitPrice != nil {
		unitPrice = *overrides.UnitPrice
	}
	taxRate := item.TaxRate
	if overrides.TaxRate != nil {
		taxRate = *overrides.TaxRate
	}
	code := item.ClassificationCode
	if overrides.ClassificationCode != nil {
		code = *overrides.ClassificationCode
	}

	return NewLineItem(item.ID, overrides.Quantity, unitPrice, taxRate, code)
}

// ResolveLines resolves every request against the catalog in request order.
// The first failing line aborts the whole set.
func ResolveLines(ctx context.Context, catalog CatalogLookup, requests []LineRequest) ([]LineItem, error) {
	if len(requests) == 0 {
		return nil, ErrEmptyDocument
	}

	items := make([]LineItem, 0, len(requests))
	for i, req := range requests {
		invItem, err := catalog.FindByID(ctx, req.InventoryItemID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("failed to load inventory item %s: %w", req.InventoryItemID, err)
			}
			invItem = nil
		}
		if invItem == nil {
			return nil, lineError(i, ErrInventoryItemNotFound.WithDetail("inventory_item_id", req.InventoryItemID.String()))
		}

		line, err := ResolveLine(invItem, req.LineOverrides)
		if err != nil {
			return nil, lineError(i, err)
		}
		items = append(items, line)
	}
	return items, nil
}

// lineError tags a domain error with the failing line position, keeping its kind
func lineError(index int, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.WithDetail("line", index+1)
	}
	return err
}
