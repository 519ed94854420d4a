package models

import (
	"fmt"

	"github.com/erp/billing/internal/domain/inventory"
	"github.com/erp/billing/internal/domain/shared/valueobject"
)

// InventoryItemModel is the persistence model for the InventoryItem aggregate
type InventoryItemModel struct {
	AggregateModel
	Name               string              `gorm:"type:varchar(200);not null"`
	Description        string              `gorm:"type:text"`
	UnitPrice          valueobject.Money   `gorm:"type:bigint;not null;default:0"`
	TaxRate            valueobject.TaxRate `gorm:"type:decimal(5,2);not null;default:0"`
	QuantityOnHand     int64               `gorm:"not null;default:0"`
	ClassificationCode string              `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem.
// Price and rate were validated when scanned.
func (m *InventoryItemModel) ToDomain() (*inventory.InventoryItem, error) {
	if m.QuantityOnHand < 0 {
		return nil, fmt.Errorf("inventory item %s: negative quantity on hand %d", m.ID, m.QuantityOnHand)
	}
	return &inventory.InventoryItem{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Name:               m.Name,
		Description:        m.Description,
		UnitPrice:          m.UnitPrice,
		TaxRate:            m.TaxRate,
		QuantityOnHand:     m.QuantityOnHand,
		ClassificationCode: m.ClassificationCode,
	}, nil
}

// InventoryItemModelFromDomain creates a persistence model from a domain InventoryItem
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{
		Name:               i.Name,
		Description:        i.Description,
		UnitPrice:          i.UnitPrice,
		TaxRate:            i.TaxRate,
		QuantityOnHand:     i.QuantityOnHand,
		ClassificationCode: i.ClassificationCode,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}
