package trade

import (
	"fmt"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ErrEmptyDocument is returned when totals are requested for no line items
var ErrEmptyDocument = shared.NewDomainError("EMPTY_DOCUMENT", "Document must contain at least one line item")

// LineItem is one priced, quantified reference to an inventory item.
// Price, tax rate and classification code are snapshots taken when the
// document was created and never change afterwards.
type LineItem struct {
	ID                 uuid.UUID
	InventoryItemID    uuid.UUID
	Quantity           int64
	UnitPrice          valueobject.Money
	TaxRate            valueobject.TaxRate
	ClassificationCode string
	Amount             valueobject.Money // Quantity * UnitPrice
	TaxAmount          valueobject.Money
	LineTotal          valueobject.Money
}

// LineAmounts are the derived monetary values of a single line
type LineAmounts struct {
	Amount    valueobject.Money
	TaxAmount valueobject.Money
	LineTotal valueobject.Money
}

// DocumentTotals are the derived monetary values of a whole document
type DocumentTotals struct {
	SubTotal  valueobject.Money
	TaxAmount valueobject.Money
	Total     valueobject.Money
}

// Equals compares all three totals
func (t DocumentTotals) Equals(other DocumentTotals) bool {
	return t.SubTotal.Equals(other.SubTotal) &&
		t.TaxAmount.Equals(other.TaxAmount) &&
		t.Total.Equals(other.Total)
}

// NewLineItem builds a line item and fixes its derived amounts
func NewLineItem(inventoryItemID uuid.UUID, quantity int64, unitPrice valueobject.Money, taxRate valueobject.TaxRate, classificationCode string) (LineItem, error) {
	if inventoryItemID == uuid.Nil {
		return LineItem{}, shared.NewDomainError("INVALID_INVENTORY_ITEM", "Inventory item ID cannot be empty")
	}
	item := LineItem{
		ID:                 uuid.New(),
		InventoryItemID:    inventoryItemID,
		Quantity:           quantity,
		UnitPrice:          unitPrice,
		TaxRate:            taxRate,
		ClassificationCode: classificationCode,
	}
	amounts, err := ComputeLine(item)
	if err != nil {
		return LineItem{}, err
	}
	item.Amount = amounts.Amount
	item.TaxAmount = amounts.TaxAmount
	item.LineTotal = amounts.LineTotal
	return item, nil
}

// ComputeLine derives amount, tax and line total from quantity, unit price and
// tax rate. Tax is rounded half up once, on this line.
func ComputeLine(item LineItem) (LineAmounts, error) {
	if item.Quantity < 1 {
		return LineAmounts{}, invalidQuantity(item.Quantity)
	}
	amount, err := item.UnitPrice.MultiplyByQuantity(item.Quantity)
	if err != nil {
		return LineAmounts{}, err
	}
	tax := amount.PercentOf(item.TaxRate)
	total, err := amount.Add(tax)
	if err != nil {
		return LineAmounts{}, err
	}
	return LineAmounts{Amount: amount, TaxAmount: tax, LineTotal: total}, nil
}

// ComputeDocumentTotals sums per-line amounts and per-line taxes. Tax is never
// derived from the aggregate subtotal, so lines with different rates do not drift.
func ComputeDocumentTotals(items []LineItem) (DocumentTotals, error) {
	if len(items) == 0 {
		return DocumentTotals{}, ErrEmptyDocument
	}

	var totals DocumentTotals
	for i := range items {
		line, err := ComputeLine(items[i])
		if err != nil {
			return DocumentTotals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		if totals.SubTotal, err = totals.SubTotal.Add(line.Amount); err != nil {
			return DocumentTotals{}, err
		}
		if totals.TaxAmount, err = totals.TaxAmount.Add(line.TaxAmount); err != nil {
			return DocumentTotals{}, err
		}
	}

	total, err := totals.SubTotal.Add(totals.TaxAmount)
	if err != nil {
		return DocumentTotals{}, err
	}
	totals.Total = total
	return totals, nil
}

// cloneLineItems deep-copies items, giving every copy a fresh identity
func cloneLineItems(items []LineItem) []LineItem {
	copies := make([]LineItem, len(items))
	for i, item := range items {
		copies[i] = item
		copies[i].ID = uuid.New()
	}
	return copies
}

func invalidQuantity(quantity int64) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvalidQuantity, fmt.Sprintf("Quantity must be at least 1, got %d", quantity))
}
