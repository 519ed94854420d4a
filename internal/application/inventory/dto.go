package inventory

import (
	"time"

	"github.com/erp/billing/internal/domain/inventory"
	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemRequest carries the editable fields of an inventory item for
// both create and update. UnitPrice is in minor units; TaxRate is a percentage.
type InventoryItemRequest struct {
	Name               string          `json:"name" binding:"required,min=1,max=200"`
	Description        string          `json:"description" binding:"max=2000"`
	UnitPrice          int64           `json:"unit_price" binding:"min=0"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	QuantityOnHand     int64           `json:"quantity_on_hand" binding:"min=0"`
	ClassificationCode string          `json:"classification_code" binding:"max=20"`
}

// InventoryItemListFilter represents filter options for inventory item lists
type InventoryItemListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name unit_price created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InventoryItemResponse represents an inventory item in API responses
type InventoryItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	UnitPrice          int64           `json:"unit_price"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	QuantityOnHand     int64           `json:"quantity_on_hand"`
	ClassificationCode string          `json:"classification_code,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

func (r InventoryItemRequest) toDetails() (inventory.ItemDetails, error) {
	price, err := valueobject.NewMoney(r.UnitPrice)
	if err != nil {
		return inventory.ItemDetails{}, err
	}
	rate, err := valueobject.NewTaxRate(r.TaxRate)
	if err != nil {
		return inventory.ItemDetails{}, err
	}
	return inventory.ItemDetails{
		Name:               r.Name,
		Description:        r.Description,
		UnitPrice:          price,
		TaxRate:            rate,
		QuantityOnHand:     r.QuantityOnHand,
		ClassificationCode: r.ClassificationCode,
	}, nil
}

// ToInventoryItemResponse converts a domain InventoryItem to its response
func ToInventoryItemResponse(item *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:                 item.ID,
		Name:               item.Name,
		Description:        item.Description,
		UnitPrice:          item.UnitPrice.Minor(),
		TaxRate:            item.TaxRate.Percent(),
		QuantityOnHand:     item.QuantityOnHand,
		ClassificationCode: item.ClassificationCode,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
		Version:            item.Version,
	}
}

// ToInventoryItemResponses converts a slice of domain inventory items
func ToInventoryItemResponses(items []inventory.InventoryItem) []InventoryItemResponse {
	responses := make([]InventoryItemResponse, len(items))
	for i := range items {
		responses[i] = ToInventoryItemResponse(&items[i])
	}
	return responses
}
