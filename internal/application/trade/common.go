package trade

import (
	"context"
	"errors"
	"time"

	"github.com/erp/billing/internal/domain/partner"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerChecker reports whether a customer exists
type CustomerChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Clock returns the current time; services derive "today" from it
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func ensureCustomer(ctx context.Context, customers CustomerChecker, id uuid.UUID) error {
	ok, err := customers.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return partner.ErrCustomerNotFound.WithDetail("customer_id", id.String())
	}
	return nil
}

// publishEvents hands the aggregate's pending events to the bus after commit.
// A failing subscriber is logged; the committed change stands.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.EventSource) {
	events := agg.PullDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.String("aggregate_id", agg.GetID().String()),
			zap.Int("event_count", len(events)),
			zap.Error(err))
	}
}

func listFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}

func notFoundAs(err error, target *shared.DomainError, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return target.WithDetail("id", id.String())
	}
	return err
}

// filterID adds an optional UUID query value to the filter
func filterID(filter *shared.Filter, key, field, value string) error {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", field+" must be a UUID").WithDetail("field", field)
	}
	filter.Filters[key] = id
	return nil
}
