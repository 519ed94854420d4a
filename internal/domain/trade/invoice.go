package trade

import (
	"strings"
	"time"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoiceStatus represents the status of an invoice.
// OVERDUE is never stored; it is derived from the due date on read.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if a caller may move an invoice in status s to target.
// OVERDUE behaves like PENDING; nothing can move an invoice into OVERDUE.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// InvoiceAction is a caller-initiated transition request
type InvoiceAction string

const (
	InvoiceActionPay    InvoiceAction = "paid"
	InvoiceActionCancel InvoiceAction = "cancelled"
)

// ParseInvoiceAction accepts an action or its target status name in any case
func ParseInvoiceAction(s string) (InvoiceAction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PAY", "PAID":
		return InvoiceActionPay, nil
	case "CANCEL", "CANCELLED", "CANCELED":
		return InvoiceActionCancel, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", "Invoice status must be PAID or CANCELLED, got "+s)
}

// Target returns the status the action moves an invoice to
func (a InvoiceAction) Target() InvoiceStatus {
	if a == InvoiceActionCancel {
		return InvoiceStatusCancelled
	}
	return InvoiceStatusPaid
}

// ErrInvoiceNotFound is returned for an unknown invoice ID
var ErrInvoiceNotFound = shared.NewNotFoundError("INVOICE_NOT_FOUND", "Invoice not found")

// ErrInvalidDateRange is returned when the due date precedes the issue date
var ErrInvalidDateRange = shared.NewDomainError("INVALID_DATE_RANGE", "Due date cannot be before issue date")

// DateOf truncates t to its calendar date in UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InvoiceDates are the calendar dates of an invoice
type InvoiceDates struct {
	IssueDate time.Time
	DueDate   time.Time
}

// Validate checks that both dates are set and IssueDate <= DueDate
func (d InvoiceDates) Validate() error {
	if d.IssueDate.IsZero() || d.DueDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Issue date and due date are required")
	}
	if DateOf(d.DueDate).Before(DateOf(d.IssueDate)) {
		return ErrInvalidDateRange
	}
	return nil
}

// Invoice is the aggregate root for a bill issued to a customer, either
// directly or from an accepted sales order
type Invoice struct {
	shared.BaseAggregateRoot
	Number       int64
	CustomerID   uuid.UUID
	SalesOrderID *uuid.UUID
	Status       InvoiceStatus // stored status: PENDING, PAID or CANCELLED
	Items        []LineItem
	SubTotal     valueobject.Money
	TaxAmount    valueobject.Money
	Total        valueobject.Money
	IssueDate    time.Time
	DueDate      time.Time
	Notes        string
	Terms        string
}

// NewInvoice creates a PENDING invoice from already resolved line items
func NewInvoice(number int64, customerID uuid.UUID, items []LineItem, dates InvoiceDates, meta DocumentMeta) (*Invoice, error) {
	totals, err := ComputeDocumentTotals(items)
	if err != nil {
		return nil, err
	}
	return newInvoice(number, customerID, nil, cloneLineItems(items), totals, dates, meta)
}

// NewInvoiceFromSalesOrder creates a PENDING invoice from a converted sales order,
// carrying the order's stored totals
func NewInvoiceFromSalesOrder(number int64, conv *ConvertedInvoice, dates InvoiceDates, meta DocumentMeta) (*Invoice, error) {
	orderID := conv.SalesOrderID
	return newInvoice(number, conv.CustomerID, &orderID, conv.Items, conv.Totals, dates, meta)
}

func newInvoice(number int64, customerID uuid.UUID, orderID *uuid.UUID, items []LineItem, totals DocumentTotals, dates InvoiceDates, meta DocumentMeta) (*Invoice, error) {
	if number < 1 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number must be positive")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, ErrEmptyDocument
	}
	if err := dates.Validate(); err != nil {
		return nil, err
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		SalesOrderID:      orderID,
		Status:            InvoiceStatusPending,
		Items:             items,
		SubTotal:          totals.SubTotal,
		TaxAmount:         totals.TaxAmount,
		Total:             totals.Total,
		IssueDate:         DateOf(dates.IssueDate),
		DueDate:           DateOf(dates.DueDate),
		Notes:             meta.Notes,
		Terms:             meta.Terms,
	}
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// DisplayNumber returns the formatted document number (INV-00001)
func (i *Invoice) DisplayNumber() string {
	return FormatDocumentNumber(DocumentTypeInvoice, i.Number)
}

// Totals returns the stored document totals
func (i *Invoice) Totals() DocumentTotals {
	return DocumentTotals{SubTotal: i.SubTotal, TaxAmount: i.TaxAmount, Total: i.Total}
}

// IsOverdue reports whether a PENDING invoice's due date is before today
func (i *Invoice) IsOverdue(today time.Time) bool {
	return i.Status == InvoiceStatusPending && DateOf(i.DueDate).Before(DateOf(today))
}

// EffectiveStatus returns the status as observed on the given day
func (i *Invoice) EffectiveStatus(today time.Time) InvoiceStatus {
	if i.IsOverdue(today) {
		return InvoiceStatusOverdue
	}
	return i.Status
}

// MarkPaid records payment; allowed while PENDING or OVERDUE
func (i *Invoice) MarkPaid(today time.Time) error {
	return i.transition(InvoiceStatusPaid, today)
}

// Cancel cancels the invoice; allowed while PENDING or OVERDUE
func (i *Invoice) Cancel(today time.Time) error {
	return i.transition(InvoiceStatusCancelled, today)
}

// Apply performs the transition requested by action
func (i *Invoice) Apply(action InvoiceAction, today time.Time) error {
	if action == InvoiceActionCancel {
		return i.Cancel(today)
	}
	return i.MarkPaid(today)
}

func (i *Invoice) transition(target InvoiceStatus, today time.Time) error {
	current := i.EffectiveStatus(today)
	if !current.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError("invoice", current.String(), target.String())
	}
	from := i.Status
	i.Status = target
	i.MarkChanged()
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, from, current == InvoiceStatusOverdue))
	return nil
}
