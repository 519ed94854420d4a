package trade

import (
	"fmt"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrOrderNotAcceptable is returned when invoicing an order that is not ACCEPTED
var ErrOrderNotAcceptable = &shared.DomainError{
	Kind:    shared.KindInvalidTransition,
	Code:    "ORDER_NOT_ACCEPTABLE",
	Message: "Only ACCEPTED sales orders can be invoiced",
}

// ConvertedInvoice is the invoice content derived from a sales order
type ConvertedInvoice struct {
	SalesOrderID uuid.UUID
	CustomerID   uuid.UUID
	Items        []LineItem
	Totals       DocumentTotals
}

// ConvertSalesOrder copies an accepted order's line items and customer binding
// into invoice content. The copies are independent of the order and their
// totals reproduce the order's stored totals exactly; prices are never
// re-read from the catalog.
func ConvertSalesOrder(order *SalesOrder) (*ConvertedInvoice, error) {
	if order.Status != SalesOrderStatusAccepted {
		return nil, ErrOrderNotAcceptable.WithDetail("current", order.Status.String())
	}

	items := cloneLineItems(order.Items)
	totals, err := ComputeDocumentTotals(items)
	if err != nil {
		return nil, err
	}
	if !totals.Equals(order.Totals()) {
		return nil, fmt.Errorf("sales order %s: line totals %d/%d/%d do not match stored totals %d/%d/%d",
			order.DisplayNumber(),
			totals.SubTotal.Minor(), totals.TaxAmount.Minor(), totals.Total.Minor(),
			order.SubTotal.Minor(), order.TaxAmount.Minor(), order.Total.Minor())
	}

	return &ConvertedInvoice{
		SalesOrderID: order.ID,
		CustomerID:   order.CustomerID,
		Items:        items,
		Totals:       order.Totals(),
	}, nil
}
