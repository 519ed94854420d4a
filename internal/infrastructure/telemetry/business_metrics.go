package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics component is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Document types used as metric attribute values
const (
	DocumentTypeSalesOrder = "sales_order"
	DocumentTypeInvoice    = "invoice"
)

// BusinessMetrics counts billing document activity. Amounts are summed in
// minor currency units.
type BusinessMetrics struct {
	created     metric.Int64Counter
	amount      metric.Int64Counter
	transitions metric.Int64Counter
	paidAmount  metric.Int64Counter
}

// NewBusinessMetrics registers the billing document instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		bm   BusinessMetrics
		errs [4]error
	)
	bm.created, errs[0] = meter.Int64Counter("billing_document_created_total",
		metric.WithDescription("Number of billing documents created"), metric.WithUnit("{document}"))
	bm.amount, errs[1] = meter.Int64Counter("billing_document_amount_total",
		metric.WithDescription("Sum of document totals in minor currency units"), metric.WithUnit("{minor_unit}"))
	bm.transitions, errs[2] = meter.Int64Counter("billing_document_transition_total",
		metric.WithDescription("Number of document status transitions"), metric.WithUnit("{transition}"))
	bm.paidAmount, errs[3] = meter.Int64Counter("billing_invoice_paid_amount_total",
		metric.WithDescription("Sum of paid invoice totals in minor currency units"), metric.WithUnit("{minor_unit}"))
	if err := errors.Join(errs[:]...); err != nil {
		return nil, fmt.Errorf("register business metrics: %w", err)
	}
	return &bm, nil
}

// RecordDocumentCreated counts a new document and adds its total
func (bm *BusinessMetrics) RecordDocumentCreated(ctx context.Context, documentType string, total int64) {
	attrs := metric.WithAttributes(AttrDocumentType.String(documentType))
	bm.created.Add(ctx, 1, attrs)
	if total > 0 {
		bm.amount.Add(ctx, total, attrs)
	}
}

// RecordTransition counts a committed status change
func (bm *BusinessMetrics) RecordTransition(ctx context.Context, documentType, from, to string, wasOverdue bool) {
	bm.transitions.Add(ctx, 1, metric.WithAttributes(
		AttrDocumentType.String(documentType),
		AttrFromStatus.String(from),
		AttrToStatus.String(to),
		AttrWasOverdue.Bool(wasOverdue),
	))
}

// RecordInvoicePaid adds the total of an invoice that moved to PAID
func (bm *BusinessMetrics) RecordInvoicePaid(ctx context.Context, total int64, wasOverdue bool) {
	if total <= 0 {
		return
	}
	bm.paidAmount.Add(ctx, total, metric.WithAttributes(AttrWasOverdue.Bool(wasOverdue)))
}
