package trade

import (
	"context"
	"sync"

	"github.com/erp/billing/internal/domain/inventory"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/erp/billing/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSalesOrderRepository is a mock implementation of SalesOrderRepository
type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) UpdateStatus(ctx context.Context, order *trade.SalesOrder, from trade.SalesOrderStatus) error {
	args := m.Called(ctx, order, from)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *trade.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, invoice *trade.Invoice, from trade.InvoiceStatus) error {
	args := m.Called(ctx, invoice, from)
	return args.Error(0)
}

// MockCatalog is a mock implementation of trade.CatalogLookup
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

// MockCustomerChecker is a mock implementation of CustomerChecker
type MockCustomerChecker struct {
	mock.Mock
}

func (m *MockCustomerChecker) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// sequenceAllocator hands out numbers from an in-memory counter per type
type sequenceAllocator struct {
	mu   sync.Mutex
	last map[trade.DocumentType]int64
	err  error
}

func newSequenceAllocator() *sequenceAllocator {
	return &sequenceAllocator{last: make(map[trade.DocumentType]int64)}
}

func (a *sequenceAllocator) NextNumber(_ context.Context, docType trade.DocumentType) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return 0, a.err
	}
	a.last[docType]++
	return a.last[docType], nil
}

func (a *sequenceAllocator) issued(docType trade.DocumentType) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last[docType]
}

// memSalesOrderStore keeps orders in memory and implements UpdateStatus as a
// compare-and-set on the stored status
type memSalesOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]trade.SalesOrder
}

func newMemSalesOrderStore(orders ...*trade.SalesOrder) *memSalesOrderStore {
	s := &memSalesOrderStore{orders: make(map[uuid.UUID]trade.SalesOrder)}
	for _, o := range orders {
		o.PullDomainEvents()
		s.orders[o.ID] = *o
	}
	return s
}

func (s *memSalesOrderStore) FindByID(_ context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	o.Items = append([]trade.LineItem(nil), o.Items...)
	return &o, nil
}

func (s *memSalesOrderStore) FindAll(context.Context, shared.Filter) ([]trade.SalesOrder, error) {
	return nil, nil
}

func (s *memSalesOrderStore) Count(context.Context, shared.Filter) (int64, error) {
	return 0, nil
}

func (s *memSalesOrderStore) Create(_ context.Context, order *trade.SalesOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = *order
	return nil
}

func (s *memSalesOrderStore) UpdateStatus(_ context.Context, order *trade.SalesOrder, from trade.SalesOrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != from {
		return shared.ErrConcurrencyConflict
	}
	stored.Status = order.Status
	stored.Version++
	s.orders[order.ID] = stored
	return nil
}
