package trade

import (
	"context"
	"errors"
	"time"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/erp/billing/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPaymentTermsDays is used for the due date when a request omits it
const DefaultPaymentTermsDays = 30

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo      trade.InvoiceRepository
	orderRepo        trade.SalesOrderRepository
	catalog          trade.CatalogLookup
	customers        CustomerChecker
	numbers          trade.NumberAllocator
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
	now              Clock
	paymentTermsDays int
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo trade.InvoiceRepository,
	orderRepo trade.SalesOrderRepository,
	catalog trade.CatalogLookup,
	customers CustomerChecker,
	numbers trade.NumberAllocator,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo:      invoiceRepo,
		orderRepo:        orderRepo,
		catalog:          catalog,
		customers:        customers,
		numbers:          numbers,
		logger:           logger,
		now:              utcNow,
		paymentTermsDays: DefaultPaymentTermsDays,
	}
}

// SetEventPublisher sets the publisher that receives events after commit
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock replaces the time source used to derive today's date
func (s *InvoiceService) SetClock(now Clock) {
	s.now = now
}

// SetPaymentTermsDays sets the default distance between issue and due date
func (s *InvoiceService) SetPaymentTermsDays(days int) {
	if days >= 0 {
		s.paymentTermsDays = days
	}
}

func (s *InvoiceService) today() time.Time {
	return trade.DateOf(s.now())
}

// CreateDirect creates a PENDING invoice from line items, without a sales order
func (s *InvoiceService) CreateDirect(ctx context.Context, req CreateInvoiceInput) (*InvoiceResponse, error) {
	dates, err := s.invoiceDates(req.IssueDate, req.DueDate)
	if err != nil {
		return nil, err
	}
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

	number, err := s.numbers.NextNumber(ctx, trade.DocumentTypeInvoice)
	if err != nil {
		return nil, err
	}

	invoice, err := trade.NewInvoice(number, req.CustomerID, items, dates, trade.DocumentMeta{
		Notes: req.Notes,
		Terms: req.Terms,
	})
	if err != nil {
		return nil, err
	}

	return s.create(ctx, invoice)
}

// CreateFromOrder invoices an ACCEPTED sales order. The invoice copies the
// order's line items and customer; its totals equal the order's stored totals.
func (s *InvoiceService) CreateFromOrder(ctx context.Context, req CreateInvoiceFromOrderInput) (*InvoiceResponse, error) {
	dates, err := s.invoiceDates(req.IssueDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, req.SalesOrderID)
	if err != nil {
		return nil, notFoundAs(err, trade.ErrSalesOrderNotFound, req.SalesOrderID)
	}

	converted, err := trade.ConvertSalesOrder(order)
	if err != nil {
		return nil, err
	}

	number, err := s.numbers.NextNumber(ctx, trade.DocumentTypeInvoice)
	if err != nil {
		return nil, err
	}

	invoice, err := trade.NewInvoiceFromSalesOrder(number, converted, dates, trade.DocumentMeta{
		Notes: req.Notes,
		Terms: req.Terms,
	})
	if err != nil {
		return nil, err
	}

	return s.create(ctx, invoice)
}

func (s *InvoiceService) create(ctx context.Context, invoice *trade.Invoice) (*InvoiceResponse, error) {
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.DisplayNumber()),
		zap.Int64("total", invoice.Total.Minor()),
	}
	if invoice.SalesOrderID != nil {
		fields = append(fields, zap.String("sales_order_id", invoice.SalesOrderID.String()))
	}
	s.logger.Info("Invoice created", fields...)
	publishEvents(ctx, s.eventPublisher, s.logger, invoice)

	response := ToInvoiceResponse(invoice, s.today())
	return &response, nil
}

// invoiceDates parses the wire dates and applies defaults: issue date today,
// due date issue date plus the payment terms
func (s *InvoiceService) invoiceDates(issue, due string) (trade.InvoiceDates, error) {
	dates := trade.InvoiceDates{IssueDate: s.today()}
	if issue != "" {
		t, err := parseDate("issue_date", issue)
		if err != nil {
			return trade.InvoiceDates{}, err
		}
		dates.IssueDate = t
	}
	if due != "" {
		t, err := parseDate("due_date", due)
		if err != nil {
			return trade.InvoiceDates{}, err
		}
		dates.DueDate = t
	} else {
		dates.DueDate = dates.IssueDate.AddDate(0, 0, s.paymentTermsDays)
	}
	if err := dates.Validate(); err != nil {
		return trade.InvoiceDates{}, err
	}
	return dates, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", field+" must be a date in YYYY-MM-DD format").
			WithDetail("field", field)
	}
	return t, nil
}

// Transition marks an invoice PAID or CANCELLED. Both are allowed from PENDING
// and from OVERDUE.
func (s *InvoiceService) Transition(ctx context.Context, invoiceID uuid.UUID, status string) (_ *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "transition",
		"invoice_id", invoiceID.String(),
		"target", status,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	action, err := trade.ParseInvoiceAction(status)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, notFoundAs(err, trade.ErrInvoiceNotFound, invoiceID)
	}

	today := s.today()
	from := invoice.Status
	telemetry.SetAttributes(span, "effective_status", invoice.EffectiveStatus(today).String())
	if err := invoice.Apply(action, today); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, invoice, from); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, s.lostRace(ctx, invoiceID, action.Target(), today)
		}
		return nil, notFoundAs(err, trade.ErrInvoiceNotFound, invoiceID)
	}

	s.logger.Info("Invoice status changed",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.DisplayNumber()),
		zap.String("from", from.String()),
		zap.String("to", invoice.Status.String()))
	publishEvents(ctx, s.eventPublisher, s.logger, invoice)

	response := ToInvoiceResponse(invoice, today)
	return &response, nil
}

func (s *InvoiceService) lostRace(ctx context.Context, invoiceID uuid.UUID, target trade.InvoiceStatus, today time.Time) error {
	current, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return shared.ErrConcurrencyConflict
	}
	status := current.EffectiveStatus(today)
	if !status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError("invoice", status.String(), target.String())
	}
	return shared.ErrConcurrencyConflict
}

// GetByID retrieves an invoice by ID with its effective status
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, notFoundAs(err, trade.ErrInvoiceNotFound, invoiceID)
	}
	response := ToInvoiceResponse(invoice, s.today())
	return &response, nil
}

// List retrieves invoices with filtering and pagination. OVERDUE is not
// stored, so the status filter is rewritten against the due date.
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	today := s.today()
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if err := filterID(&domainFilter, trade.FilterCustomerID, "customer_id", filter.CustomerID); err != nil {
		return nil, 0, err
	}
	if err := filterID(&domainFilter, trade.FilterSalesOrderID, "sales_order_id", filter.SalesOrderID); err != nil {
		return nil, 0, err
	}

	switch status := trade.InvoiceStatus(filter.Status); status {
	case "":
	case trade.InvoiceStatusOverdue:
		domainFilter.Filters[trade.FilterStatus] = trade.InvoiceStatusPending.String()
		domainFilter.Filters[trade.FilterDueBefore] = today
	case trade.InvoiceStatusPending:
		domainFilter.Filters[trade.FilterStatus] = trade.InvoiceStatusPending.String()
		domainFilter.Filters[trade.FilterDueOnOrAfter] = today
	case trade.InvoiceStatusPaid, trade.InvoiceStatusCancelled:
		domainFilter.Filters[trade.FilterStatus] = status.String()
	default:
		return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown invoice status: "+filter.Status)
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListItemResponses(invoices, today), total, nil
}
