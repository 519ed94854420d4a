package models

import (
	"fmt"
	"time"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/google/uuid"
)

// SalesOrderModel is the persistence model for the SalesOrder aggregate root
type SalesOrderModel struct {
	AggregateModel
	Number        int64                  `gorm:"not null;uniqueIndex"`
	CustomerID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status        trade.SalesOrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Items         []SalesOrderItemModel  `gorm:"foreignKey:SalesOrderID;references:ID"`
	SubTotal      valueobject.Money      `gorm:"type:bigint;not null"`
	TaxAmount     valueobject.Money      `gorm:"type:bigint;not null"`
	Total         valueobject.Money      `gorm:"type:bigint;not null"`
	PlaceOfSupply string                 `gorm:"type:varchar(100)"`
	Notes         string                 `gorm:"type:text"`
	Terms         string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder
func (m *SalesOrderModel) ToDomain() (*trade.SalesOrder, error) {
	totals, err := documentTotals(m.SubTotal, m.TaxAmount, m.Total)
	if err != nil {
		return nil, err
	}
	items := make([]trade.LineItem, len(m.Items))
	for i := range m.Items {
		if items[i], err = m.Items[i].ToDomain(); err != nil {
			return nil, err
		}
	}
	return &trade.SalesOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		Items:             items,
		SubTotal:          totals.SubTotal,
		TaxAmount:         totals.TaxAmount,
		Total:             totals.Total,
		PlaceOfSupply:     m.PlaceOfSupply,
		Notes:             m.Notes,
		Terms:             m.Terms,
	}, nil
}

// SalesOrderModelFromDomain creates a persistence model from a domain SalesOrder
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		Number:        o.Number,
		CustomerID:    o.CustomerID,
		Status:        o.Status,
		SubTotal:      o.SubTotal,
		TaxAmount:     o.TaxAmount,
		Total:         o.Total,
		PlaceOfSupply: o.PlaceOfSupply,
		Notes:         o.Notes,
		Terms:         o.Terms,
		Items:         make([]SalesOrderItemModel, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i, item := range o.Items {
		m.Items[i] = SalesOrderItemModel{
			SalesOrderID: o.ID,
			LineColumns:  lineColumnsFromDomain(item, i+1, o.CreatedAt),
		}
	}
	return m
}

// SalesOrderItemModel is one persisted sales order line
type SalesOrderItemModel struct {
	SalesOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	LineColumns
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	AggregateModel
	Number       int64               `gorm:"not null;uniqueIndex"`
	CustomerID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	SalesOrderID *uuid.UUID          `gorm:"type:uuid;index"`
	Status       trade.InvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Items        []InvoiceItemModel  `gorm:"foreignKey:InvoiceID;references:ID"`
	SubTotal     valueobject.Money   `gorm:"type:bigint;not null"`
	TaxAmount    valueobject.Money   `gorm:"type:bigint;not null"`
	Total        valueobject.Money   `gorm:"type:bigint;not null"`
	IssueDate    time.Time           `gorm:"type:date;not null"`
	DueDate      time.Time           `gorm:"type:date;not null;index"`
	Notes        string              `gorm:"type:text"`
	Terms        string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() (*trade.Invoice, error) {
	totals, err := documentTotals(m.SubTotal, m.TaxAmount, m.Total)
	if err != nil {
		return nil, err
	}
	items := make([]trade.LineItem, len(m.Items))
	for i := range m.Items {
		if items[i], err = m.Items[i].ToDomain(); err != nil {
			return nil, err
		}
	}
	return &trade.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		CustomerID:        m.CustomerID,
		SalesOrderID:      m.SalesOrderID,
		Status:            m.Status,
		Items:             items,
		SubTotal:          totals.SubTotal,
		TaxAmount:         totals.TaxAmount,
		Total:             totals.Total,
		IssueDate:         trade.DateOf(m.IssueDate),
		DueDate:           trade.DateOf(m.DueDate),
		Notes:             m.Notes,
		Terms:             m.Terms,
	}, nil
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *trade.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		Number:       inv.Number,
		CustomerID:   inv.CustomerID,
		SalesOrderID: inv.SalesOrderID,
		Status:       inv.Status,
		SubTotal:     inv.SubTotal,
		TaxAmount:    inv.TaxAmount,
		Total:        inv.Total,
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		Notes:        inv.Notes,
		Terms:        inv.Terms,
		Items:        make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	for i, item := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			InvoiceID:   inv.ID,
			LineColumns: lineColumnsFromDomain(item, i+1, inv.CreatedAt),
		}
	}
	return m
}

// InvoiceItemModel is one persisted invoice line
type InvoiceItemModel struct {
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	LineColumns
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// LineColumns are the snapshot columns shared by both line tables.
// Position keeps the order in which lines were submitted.
type LineColumns struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Position           int                 `gorm:"not null"`
	InventoryItemID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Quantity           int64               `gorm:"not null"`
	UnitPrice          valueobject.Money   `gorm:"type:bigint;not null"`
	TaxRate            valueobject.TaxRate `gorm:"type:decimal(5,2);not null"`
	ClassificationCode string              `gorm:"type:varchar(20)"`
	Amount             valueobject.Money   `gorm:"type:bigint;not null"`
	TaxAmount          valueobject.Money   `gorm:"type:bigint;not null"`
	LineTotal          valueobject.Money   `gorm:"type:bigint;not null"`
	CreatedAt          time.Time           `gorm:"not null"`
}

// ToDomain converts stored line columns back to a LineItem without recomputing
// amounts, so a stored document reads back exactly as written. The columns
// must still add up.
func (c *LineColumns) ToDomain() (trade.LineItem, error) {
	if err := checkSum(c.Amount, c.TaxAmount, c.LineTotal); err != nil {
		return trade.LineItem{}, fmt.Errorf("line %s: %w", c.ID, err)
	}
	return trade.LineItem{
		ID:                 c.ID,
		InventoryItemID:    c.InventoryItemID,
		Quantity:           c.Quantity,
		UnitPrice:          c.UnitPrice,
		TaxRate:            c.TaxRate,
		ClassificationCode: c.ClassificationCode,
		Amount:             c.Amount,
		TaxAmount:          c.TaxAmount,
		LineTotal:          c.LineTotal,
	}, nil
}

func lineColumnsFromDomain(item trade.LineItem, position int, createdAt time.Time) LineColumns {
	return LineColumns{
		ID:                 item.ID,
		Position:           position,
		InventoryItemID:    item.InventoryItemID,
		Quantity:           item.Quantity,
		UnitPrice:          item.UnitPrice,
		TaxRate:            item.TaxRate,
		ClassificationCode: item.ClassificationCode,
		Amount:             item.Amount,
		TaxAmount:          item.TaxAmount,
		LineTotal:          item.LineTotal,
		CreatedAt:          createdAt,
	}
}

func documentTotals(subTotal, taxAmount, total valueobject.Money) (trade.DocumentTotals, error) {
	if err := checkSum(subTotal, taxAmount, total); err != nil {
		return trade.DocumentTotals{}, fmt.Errorf("document totals: %w", err)
	}
	return trade.DocumentTotals{SubTotal: subTotal, TaxAmount: taxAmount, Total: total}, nil
}

// checkSum rejects stored amounts where net + tax does not equal the total
func checkSum(net, tax, total valueobject.Money) error {
	sum, err := net.Add(tax)
	if err != nil {
		return err
	}
	if !sum.Equals(total) {
		return shared.NewDomainError(shared.CodeInvalidAmount,
			fmt.Sprintf("Stored total %s does not equal %s + %s", total, net, tax))
	}
	return nil
}
