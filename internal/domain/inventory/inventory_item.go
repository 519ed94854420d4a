package inventory

import (
	"strings"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/shared/valueobject"
)

const (
	maxNameLength               = 200
	maxClassificationCodeLength = 20
)

// ErrItemNotFound is returned for an unknown inventory item ID
var ErrItemNotFound = shared.NewNotFoundError("INVENTORY_ITEM_NOT_FOUND", "Inventory item not found")

// InventoryItem is a catalog entry that documents reference by ID.
// Its price, tax rate and classification code are snapshotted into line items
// when a document is created; later edits here never reach existing documents.
type InventoryItem struct {
	shared.BaseAggregateRoot
	Name               string
	Description        string
	UnitPrice          valueobject.Money
	TaxRate            valueobject.TaxRate
	QuantityOnHand     int64
	ClassificationCode string // HSN/SAC code, optional
}

// ItemDetails carries the editable fields of an inventory item
type ItemDetails struct {
	Name               string
	Description        string
	UnitPrice          valueobject.Money
	TaxRate            valueobject.TaxRate
	QuantityOnHand     int64
	ClassificationCode string
}

// NewInventoryItem creates a new inventory item
func NewInventoryItem(details ItemDetails) (*InventoryItem, error) {
	if err := validateDetails(&details); err != nil {
		return nil, err
	}
	item := &InventoryItem{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	item.apply(details)
	return item, nil
}

// Update replaces the editable fields
func (i *InventoryItem) Update(details ItemDetails) error {
	if err := validateDetails(&details); err != nil {
		return err
	}
	i.apply(details)
	i.MarkChanged()
	return nil
}

func (i *InventoryItem) apply(d ItemDetails) {
	i.Name = d.Name
	i.Description = d.Description
	i.UnitPrice = d.UnitPrice
	i.TaxRate = d.TaxRate
	i.QuantityOnHand = d.QuantityOnHand
	i.ClassificationCode = d.ClassificationCode
}

func validateDetails(d *ItemDetails) error {
	d.Name = strings.TrimSpace(d.Name)
	d.ClassificationCode = strings.TrimSpace(d.ClassificationCode)
	if d.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Inventory item name cannot be empty")
	}
	if len(d.Name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Inventory item name cannot exceed 200 characters")
	}
	if d.QuantityOnHand < 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity on hand cannot be negative")
	}
	if len(d.ClassificationCode) > maxClassificationCodeLength {
		return shared.NewDomainError("INVALID_CLASSIFICATION_CODE", "Classification code cannot exceed 20 characters")
	}
	return nil
}
