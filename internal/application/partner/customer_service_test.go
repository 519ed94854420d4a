package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/billing/internal/domain/partner"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)
		svc := NewCustomerService(repo)

		resp, err := svc.Create(ctx, CreateCustomerRequest{Name: " Acme Traders ", Email: "Billing@Acme.test"})

		require.NoError(t, err)
		assert.Equal(t, "Acme Traders", resp.Name)
		assert.Equal(t, "billing@acme.test", resp.Email)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("invalid email", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		_, err := svc.Create(ctx, CreateCustomerRequest{Name: "Acme", Email: "not-an-email"})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_EMAIL", de.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("Save", ctx, mock.Anything).Return(errors.New("db down"))
		svc := NewCustomerService(repo)

		_, err := svc.Create(ctx, CreateCustomerRequest{Name: "Acme"})
		assert.EqualError(t, err, "db down")
	})
}

func TestCustomerService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	customer, err := partner.NewCustomer("Acme", "", "1 Market St")
	require.NoError(t, err)
	missing := uuid.New()
	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	resp, err := svc.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Market St", resp.Address)

	_, err = svc.GetByID(ctx, missing)
	assert.ErrorIs(t, err, partner.ErrCustomerNotFound)
}

func TestCustomerService_Exists(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	id := uuid.New()
	repo.On("ExistsByID", ctx, id).Return(true, nil)

	ok, err := NewCustomerService(repo).Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	customer, err := partner.NewCustomer("Acme", "", "")
	require.NoError(t, err)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "acm" && f.PageSize == 5
	})).Return([]partner.Customer{*customer}, nil)
	repo.On("Count", ctx, mock.Anything).Return(int64(1), nil)

	items, total, err := NewCustomerService(repo).List(ctx, CustomerListFilter{Search: "acm", PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Acme", items[0].Name)
}
