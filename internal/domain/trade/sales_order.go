package trade

import (
	"strings"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusPending  SalesOrderStatus = "PENDING"
	SalesOrderStatusAccepted SalesOrderStatus = "ACCEPTED"
	SalesOrderStatusRejected SalesOrderStatus = "REJECTED"
)

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusPending, SalesOrderStatusAccepted, SalesOrderStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	switch s {
	case SalesOrderStatusPending:
		return target == SalesOrderStatusAccepted || target == SalesOrderStatusRejected
	case SalesOrderStatusAccepted, SalesOrderStatusRejected:
		return false // Terminal states
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s SalesOrderStatus) IsTerminal() bool {
	return s == SalesOrderStatusAccepted || s == SalesOrderStatusRejected
}

// SalesOrderAction is a caller-initiated transition request
type SalesOrderAction string

const (
	SalesOrderActionAccept SalesOrderAction = "accept"
	SalesOrderActionReject SalesOrderAction = "reject"
)

// ParseSalesOrderAction accepts an action or its target status name in any case
// ("accept", "ACCEPTED", "reject", "Rejected")
func ParseSalesOrderAction(s string) (SalesOrderAction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACCEPT", "ACCEPTED":
		return SalesOrderActionAccept, nil
	case "REJECT", "REJECTED":
		return SalesOrderActionReject, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", "Sales order status must be ACCEPTED or REJECTED, got "+s)
}

// Target returns the status the action moves a sales order to
func (a SalesOrderAction) Target() SalesOrderStatus {
	if a == SalesOrderActionReject {
		return SalesOrderStatusRejected
	}
	return SalesOrderStatusAccepted
}

// ErrSalesOrderNotFound is returned for an unknown sales order ID
var ErrSalesOrderNotFound = shared.NewNotFoundError("SALES_ORDER_NOT_FOUND", "Sales order not found")

// DocumentMeta carries the free-text fields of a document
type DocumentMeta struct {
	PlaceOfSupply string
	Notes         string
	Terms         string
}

// SalesOrder is the aggregate root for a customer order. Totals are computed
// once at creation and persisted with the items.
type SalesOrder struct {
	shared.BaseAggregateRoot
	Number        int64
	CustomerID    uuid.UUID
	Status        SalesOrderStatus
	Items         []LineItem
	SubTotal      valueobject.Money
	TaxAmount     valueobject.Money
	Total         valueobject.Money
	PlaceOfSupply string
	Notes         string
	Terms         string
}

// NewSalesOrder creates a PENDING sales order and computes its totals
func NewSalesOrder(number int64, customerID uuid.UUID, items []LineItem, meta DocumentMeta) (*SalesOrder, error) {
	if number < 1 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number must be positive")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	totals, err := ComputeDocumentTotals(items)
	if err != nil {
		return nil, err
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		Status:            SalesOrderStatusPending,
		Items:             cloneLineItems(items),
		SubTotal:          totals.SubTotal,
		TaxAmount:         totals.TaxAmount,
		Total:             totals.Total,
		PlaceOfSupply:     strings.TrimSpace(meta.PlaceOfSupply),
		Notes:             meta.Notes,
		Terms:             meta.Terms,
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))
	return order, nil
}

// DisplayNumber returns the formatted document number (SO-00001)
func (o *SalesOrder) DisplayNumber() string {
	return FormatDocumentNumber(DocumentTypeSalesOrder, o.Number)
}

// Totals returns the stored document totals
func (o *SalesOrder) Totals() DocumentTotals {
	return DocumentTotals{SubTotal: o.SubTotal, TaxAmount: o.TaxAmount, Total: o.Total}
}

// Accept moves a PENDING order to ACCEPTED
func (o *SalesOrder) Accept() error {
	return o.transition(SalesOrderStatusAccepted)
}

// Reject moves a PENDING order to REJECTED
func (o *SalesOrder) Reject() error {
	return o.transition(SalesOrderStatusRejected)
}

// Apply performs the transition requested by action
func (o *SalesOrder) Apply(action SalesOrderAction) error {
	if action == SalesOrderActionReject {
		return o.Reject()
	}
	return o.Accept()
}

// transition changes status only; items and totals are left untouched
func (o *SalesOrder) transition(target SalesOrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError("sales order", o.Status.String(), target.String())
	}
	from := o.Status
	o.Status = target
	o.MarkChanged()
	o.AddDomainEvent(NewSalesOrderStatusChangedEvent(o, from))
	return nil
}
