package trade

import (
	"context"
	"testing"
	"time"

	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/shared/valueobject"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)

type invoiceFixture struct {
	invoices  *MockInvoiceRepository
	orders    *MockSalesOrderRepository
	catalog   *MockCatalog
	customers *MockCustomerChecker
	numbers   *sequenceAllocator
	publisher *MockEventPublisher
	service   *InvoiceService
}

func newInvoiceFixture() *invoiceFixture {
	f := &invoiceFixture{
		invoices:  new(MockInvoiceRepository),
		orders:    new(MockSalesOrderRepository),
		catalog:   new(MockCatalog),
		customers: new(MockCustomerChecker),
		numbers:   newSequenceAllocator(),
		publisher: new(MockEventPublisher),
	}
	f.service = NewInvoiceService(f.invoices, f.orders, f.catalog, f.customers, f.numbers, nil)
	f.service.SetEventPublisher(f.publisher)
	f.service.SetClock(func() time.Time { return fixedNow })
	return f
}

func newStoredInvoice(t *testing.T, issue, due string) *trade.Invoice {
	t.Helper()
	line, err := trade.NewLineItem(uuid.New(), 1, valueobject.MustMoney(10000), valueobject.MustTaxRate("18"), "")
	require.NoError(t, err)
	issueDate, _ := time.Parse(DateLayout, issue)
	dueDate, _ := time.Parse(DateLayout, due)
	inv, err := trade.NewInvoice(1, testCustomerID, []trade.LineItem{line},
		trade.InvoiceDates{IssueDate: issueDate, DueDate: dueDate}, trade.DocumentMeta{})
	require.NoError(t, err)
	inv.PullDomainEvents()
	return inv
}

func TestInvoiceService_CreateDirect(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending invoice", func(t *testing.T) {
		f := newInvoiceFixture()
		widget := newCatalogItem(t, 10000, "18")
		f.customers.On("Exists", mock.Anything, testCustomerID).Return(true, nil)
		f.catalog.On("FindByID", mock.Anything, widget.ID).Return(widget, nil)
		f.invoices.On("Create", mock.Anything, mock.AnythingOfType("*trade.Invoice")).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.CreateDirect(ctx, CreateInvoiceInput{
			CustomerID: testCustomerID,
			Items:      []LineItemInput{{InventoryItemID: widget.ID, Quantity: 2}},
			IssueDate:  "2026-04-01",
			DueDate:    "2026-04-30",
		})

		require.NoError(t, err)
		assert.Equal(t, "INV-00001", resp.Number)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, int64(23600), resp.Total.Minor())
		assert.Equal(t, "2026-04-01", resp.IssueDate)
		assert.Equal(t, "2026-04-30", resp.DueDate)
		assert.Nil(t, resp.SalesOrderID)
	})

	t.Run("defaults dates from today and payment terms", func(t *testing.T) {
		f := newInvoiceFixture()
		f.service.SetPaymentTermsDays(15)
		widget := newCatalogItem(t, 100, "0")
		f.customers.On("Exists", mock.Anything, testCustomerID).Return(true, nil)
		f.catalog.On("FindByID", mock.Anything, widget.ID).Return(widget, nil)
		f.invoices.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.CreateDirect(ctx, CreateInvoiceInput{
			CustomerID: testCustomerID,
			Items:      []LineItemInput{{InventoryItemID: widget.ID, Quantity: 1}},
		})

		require.NoError(t, err)
		assert.Equal(t, "2026-04-10", resp.IssueDate)
		assert.Equal(t, "2026-04-25", resp.DueDate)
	})

	t.Run("due date before issue date", func(t *testing.T) {
		f := newInvoiceFixture()

		_, err := f.service.CreateDirect(ctx, CreateInvoiceInput{
			CustomerID: testCustomerID,
			Items:      []LineItemInput{{InventoryItemID: uuid.New(), Quantity: 1}},
			IssueDate:  "2026-04-10",
			DueDate:    "2026-04-09",
		})

		assert.ErrorIs(t, err, trade.ErrInvalidDateRange)
		f.customers.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
		assert.Equal(t, int64(0), f.numbers.issued(trade.DocumentTypeInvoice))
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newInvoiceFixture()
		_, err := f.service.CreateDirect(ctx, CreateInvoiceInput{CustomerID: testCustomerID, IssueDate: "10/04/2026"})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_DATE", de.Code)
		assert.Equal(t, "issue_date", de.Details["field"])
	})
}

func TestInvoiceService_CreateFromOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted order keeps its totals after a catalog price change", func(t *testing.T) {
		f := newInvoiceFixture()
		order := newAcceptedOrder(t)
		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.invoices.On("Create", mock.Anything, mock.AnythingOfType("*trade.Invoice")).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.CreateFromOrder(ctx, CreateInvoiceFromOrderInput{
			SalesOrderID: order.ID,
			IssueDate:    "2026-04-10",
			DueDate:      "2026-05-10",
		})

		require.NoError(t, err)
		require.NotNil(t, resp.SalesOrderID)
		assert.Equal(t, order.ID, *resp.SalesOrderID)
		assert.Equal(t, order.CustomerID, resp.CustomerID)
		assert.Equal(t, order.SubTotal, resp.SubTotal)
		assert.Equal(t, order.TaxAmount, resp.TaxAmount)
		assert.Equal(t, order.Total, resp.Total)
		require.Len(t, resp.Items, len(order.Items))
		assert.NotEqual(t, order.Items[0].ID, resp.Items[0].ID)
		assert.Equal(t, order.Items[0].UnitPrice, resp.Items[0].UnitPrice)
		f.catalog.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("pending order is not acceptable", func(t *testing.T) {
		f := newInvoiceFixture()
		order := newPendingOrder(t)
		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := f.service.CreateFromOrder(ctx, CreateInvoiceFromOrderInput{SalesOrderID: order.ID})

		assert.ErrorIs(t, err, trade.ErrOrderNotAcceptable)
		assert.True(t, shared.IsInvalidTransition(err))
		assert.Equal(t, int64(0), f.numbers.issued(trade.DocumentTypeInvoice))
	})

	t.Run("missing order", func(t *testing.T) {
		f := newInvoiceFixture()
		id := uuid.New()
		f.orders.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateFromOrder(ctx, CreateInvoiceFromOrderInput{SalesOrderID: id})
		assert.ErrorIs(t, err, trade.ErrSalesOrderNotFound)
	})
}

func TestInvoiceService_GetByID_DerivesOverdue(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture()
	inv := newStoredInvoice(t, "2026-03-01", "2026-03-31")
	f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	resp, err := f.service.GetByID(ctx, inv.ID)

	require.NoError(t, err)
	assert.Equal(t, "OVERDUE", resp.Status)
	assert.Equal(t, trade.InvoiceStatusPending, inv.Status)
	f.invoices.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("pay overdue invoice", func(t *testing.T) {
		f := newInvoiceFixture()
		inv := newStoredInvoice(t, "2026-03-01", "2026-03-31")
		f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		f.invoices.On("UpdateStatus", mock.Anything, inv, trade.InvoiceStatusPending).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Transition(ctx, inv.ID, "PAID")

		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.Status)
	})

	t.Run("cancel pending invoice", func(t *testing.T) {
		f := newInvoiceFixture()
		inv := newStoredInvoice(t, "2026-04-01", "2026-04-30")
		f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		f.invoices.On("UpdateStatus", mock.Anything, inv, trade.InvoiceStatusPending).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Transition(ctx, inv.ID, "cancelled")

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("paid invoice cannot be cancelled", func(t *testing.T) {
		f := newInvoiceFixture()
		inv := newStoredInvoice(t, "2026-04-01", "2026-04-30")
		require.NoError(t, inv.MarkPaid(fixedNow))
		f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

		_, err := f.service.Transition(ctx, inv.ID, "CANCELLED")

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.KindInvalidTransition, de.Kind)
		assert.Equal(t, "PAID", de.Details["current"])
	})

	t.Run("OVERDUE is not a target", func(t *testing.T) {
		f := newInvoiceFixture()
		_, err := f.service.Transition(ctx, uuid.New(), "OVERDUE")
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
	})

	t.Run("lost race reports current status", func(t *testing.T) {
		f := newInvoiceFixture()
		inv := newStoredInvoice(t, "2026-04-01", "2026-04-30")
		paid := newStoredInvoice(t, "2026-04-01", "2026-04-30")
		paid.ID = inv.ID
		require.NoError(t, paid.MarkPaid(fixedNow))
		f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil).Once()
		f.invoices.On("UpdateStatus", mock.Anything, inv, trade.InvoiceStatusPending).Return(shared.ErrConcurrencyConflict)
		f.invoices.On("FindByID", mock.Anything, inv.ID).Return(paid, nil).Once()

		_, err := f.service.Transition(ctx, inv.ID, "CANCELLED")

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "PAID", de.Details["current"])
	})
}

func TestInvoiceService_List_StatusFilter(t *testing.T) {
	ctx := context.Background()
	today := trade.DateOf(fixedNow)

	tests := []struct {
		status string
		check  func(t *testing.T, filters map[string]interface{})
	}{
		{"OVERDUE", func(t *testing.T, filters map[string]interface{}) {
			assert.Equal(t, "PENDING", filters[trade.FilterStatus])
			assert.Equal(t, today, filters[trade.FilterDueBefore])
			assert.NotContains(t, filters, trade.FilterDueOnOrAfter)
		}},
		{"PENDING", func(t *testing.T, filters map[string]interface{}) {
			assert.Equal(t, "PENDING", filters[trade.FilterStatus])
			assert.Equal(t, today, filters[trade.FilterDueOnOrAfter])
		}},
		{"PAID", func(t *testing.T, filters map[string]interface{}) {
			assert.Equal(t, "PAID", filters[trade.FilterStatus])
			assert.NotContains(t, filters, trade.FilterDueBefore)
		}},
		{"", func(t *testing.T, filters map[string]interface{}) {
			assert.Empty(t, filters)
		}},
	}

	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			f := newInvoiceFixture()
			var captured shared.Filter
			f.invoices.On("FindAll", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				captured = args.Get(1).(shared.Filter)
			}).Return([]trade.Invoice{}, nil)
			f.invoices.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

			_, _, err := f.service.List(ctx, InvoiceListFilter{Status: tt.status})
			require.NoError(t, err)
			tt.check(t, captured.Filters)
		})
	}

	t.Run("rows are reported with effective status", func(t *testing.T) {
		f := newInvoiceFixture()
		overdue := newStoredInvoice(t, "2026-03-01", "2026-03-31")
		f.invoices.On("FindAll", mock.Anything, mock.Anything).Return([]trade.Invoice{*overdue}, nil)
		f.invoices.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

		items, total, err := f.service.List(ctx, InvoiceListFilter{Status: "OVERDUE"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "OVERDUE", items[0].Status)
	})
}

func TestInvoiceService_List_IDFilters(t *testing.T) {
	ctx := context.Background()

	t.Run("customer and order ids are parsed", func(t *testing.T) {
		f := newInvoiceFixture()
		orderID := uuid.New()
		var captured shared.Filter
		f.invoices.On("FindAll", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			captured = args.Get(1).(shared.Filter)
		}).Return([]trade.Invoice{}, nil)
		f.invoices.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		_, _, err := f.service.List(ctx, InvoiceListFilter{
			CustomerID:   testCustomerID.String(),
			SalesOrderID: orderID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, testCustomerID, captured.Filters[trade.FilterCustomerID])
		assert.Equal(t, orderID, captured.Filters[trade.FilterSalesOrderID])
	})

	t.Run("malformed id is a validation error", func(t *testing.T) {
		f := newInvoiceFixture()

		_, _, err := f.service.List(ctx, InvoiceListFilter{CustomerID: "not-a-uuid"})
		require.Error(t, err)
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		f.invoices.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})
}
