package trade

import (
	"context"
	"errors"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/erp/billing/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesOrderService handles sales order business operations
type SalesOrderService struct {
	orderRepo      trade.SalesOrderRepository
	catalog        trade.CatalogLookup
	customers      CustomerChecker
	numbers        trade.NumberAllocator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo trade.SalesOrderRepository,
	catalog trade.CatalogLookup,
	customers CustomerChecker,
	numbers trade.NumberAllocator,
	logger *zap.Logger,
) *SalesOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesOrderService{
		orderRepo: orderRepo,
		catalog:   catalog,
		customers: customers,
		numbers:   numbers,
		logger:    logger,
	}
}

// SetEventPublisher sets the publisher that receives events after commit
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a PENDING sales order. Line values are snapshotted from the
// catalog at this moment; the number is allocated only once the input is valid.
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderInput) (*SalesOrderResponse, error) {
	if err := ensureCustomer(ctx, s.customers, req.CustomerID); err != nil {
		return nil, err
	}

	requests, err := toLineRequests(req.Items)
	if err != nil {
		return nil, err
	}
	items, err := trade.ResolveLines(ctx, s.catalog, requests)
	if err != nil {
		return nil, err
	}
	if _, err := trade.ComputeDocumentTotals(items); err != nil {
		return nil, err
	}

	number, err := s.numbers.NextNumber(ctx, trade.DocumentTypeSalesOrder)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewSalesOrder(number, req.CustomerID, items, trade.DocumentMeta{
		PlaceOfSupply: req.PlaceOfSupply,
		Notes:         req.Notes,
		Terms:         req.Terms,
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Sales order created",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.DisplayNumber()),
		zap.Int("item_count", len(order.Items)),
		zap.Int64("total", order.Total.Minor()))
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Transition accepts or rejects a PENDING sales order. status is the target
// status or action name (ACCEPTED, REJECTED). Of two concurrent requests on
// the same order exactly one succeeds.
func (s *SalesOrderService) Transition(ctx context.Context, orderID uuid.UUID, status string) (_ *SalesOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_order", "transition",
		"order_id", orderID.String(),
		"target", status,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	action, err := trade.ParseSalesOrderAction(status)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundAs(err, trade.ErrSalesOrderNotFound, orderID)
	}

	from := order.Status
	if err := order.Apply(action); err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, from); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, s.lostRace(ctx, orderID, action.Target())
		}
		return nil, notFoundAs(err, trade.ErrSalesOrderNotFound, orderID)
	}

	s.logger.Info("Sales order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.DisplayNumber()),
		zap.String("from", from.String()),
		zap.String("to", order.Status.String()))
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// lostRace explains a failed compare-and-set: if another request already moved
// the order out of PENDING the caller sees an invalid transition from that
// status, otherwise a retryable conflict
func (s *SalesOrderService) lostRace(ctx context.Context, orderID uuid.UUID, target trade.SalesOrderStatus) error {
	current, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return shared.ErrConcurrencyConflict
	}
	if !current.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError("sales order", current.Status.String(), target.String())
	}
	return shared.ErrConcurrencyConflict
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundAs(err, trade.ErrSalesOrderNotFound, orderID)
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders with filtering and pagination
func (s *SalesOrderService) List(ctx context.Context, filter SalesOrderListFilter) ([]SalesOrderListItemResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if err := filterID(&domainFilter, trade.FilterCustomerID, "customer_id", filter.CustomerID); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" {
		status := trade.SalesOrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown sales order status: "+filter.Status)
		}
		domainFilter.Filters[trade.FilterStatus] = status.String()
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSalesOrderListItemResponses(orders), total, nil
}
