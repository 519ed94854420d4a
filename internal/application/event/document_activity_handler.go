package event

import (
	"context"
	"fmt"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/erp/billing/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ActivityRecorder receives document activity for metrics.
// telemetry.BusinessMetrics implements it.
type ActivityRecorder interface {
	RecordDocumentCreated(ctx context.Context, documentType string, total int64)
	RecordTransition(ctx context.Context, documentType, from, to string, wasOverdue bool)
	RecordInvoicePaid(ctx context.Context, total int64, wasOverdue bool)
}

// DocumentActivityHandler writes an audit log line and records metrics for
// every committed sales order and invoice event
type DocumentActivityHandler struct {
	logger   *zap.Logger
	recorder ActivityRecorder
}

// NewDocumentActivityHandler creates a new handler. recorder may be nil.
func NewDocumentActivityHandler(logger *zap.Logger, recorder ActivityRecorder) *DocumentActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentActivityHandler{
		logger:   logger.Named("audit"),
		recorder: recorder,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *DocumentActivityHandler) EventTypes() []string {
	return []string{
		trade.EventTypeSalesOrderCreated,
		trade.EventTypeSalesOrderAccepted,
		trade.EventTypeSalesOrderRejected,
		trade.EventTypeInvoiceCreated,
		trade.EventTypeInvoicePaid,
		trade.EventTypeInvoiceCancelled,
	}
}

// Handle processes one document event
func (h *DocumentActivityHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", evt.EventID().String()),
		zap.String("event_type", evt.EventType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	}

	switch e := evt.(type) {
	case *trade.SalesOrderCreatedEvent:
		h.logger.Info("Sales order created", append(fields,
			zap.String("number", e.OrderNumber),
			zap.String("customer_id", e.CustomerID.String()),
			zap.Int("item_count", e.ItemCount),
			zap.Int64("total", e.Total),
		)...)
		if h.recorder != nil {
			h.recorder.RecordDocumentCreated(ctx, telemetry.DocumentTypeSalesOrder, e.Total)
		}

	case *trade.SalesOrderStatusChangedEvent:
		h.logger.Info("Sales order status changed", append(fields,
			zap.String("number", e.OrderNumber),
			zap.String("from", e.FromStatus.String()),
			zap.String("to", e.ToStatus.String()),
		)...)
		if h.recorder != nil {
			h.recorder.RecordTransition(ctx, telemetry.DocumentTypeSalesOrder,
				e.FromStatus.String(), e.ToStatus.String(), false)
		}

	case *trade.InvoiceCreatedEvent:
		created := append(fields,
			zap.String("number", e.InvoiceNumber),
			zap.String("customer_id", e.CustomerID.String()),
			zap.Int64("total", e.Total),
		)
		if e.SalesOrderID != nil {
			created = append(created, zap.String("sales_order_id", e.SalesOrderID.String()))
		}
		h.logger.Info("Invoice created", created...)
		if h.recorder != nil {
			h.recorder.RecordDocumentCreated(ctx, telemetry.DocumentTypeInvoice, e.Total)
		}

	case *trade.InvoiceStatusChangedEvent:
		h.logger.Info("Invoice status changed", append(fields,
			zap.String("number", e.InvoiceNumber),
			zap.String("from", e.FromStatus.String()),
			zap.String("to", e.ToStatus.String()),
			zap.Bool("was_overdue", e.WasOverdue),
		)...)
		if h.recorder != nil {
			h.recorder.RecordTransition(ctx, telemetry.DocumentTypeInvoice,
				e.FromStatus.String(), e.ToStatus.String(), e.WasOverdue)
			if e.ToStatus == trade.InvoiceStatusPaid {
				h.recorder.RecordInvoicePaid(ctx, e.Total, e.WasOverdue)
			}
		}

	default:
		return fmt.Errorf("unexpected event %T for type %s", evt, evt.EventType())
	}
	return nil
}
