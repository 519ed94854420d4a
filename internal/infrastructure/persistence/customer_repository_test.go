package persistence

import (
	"context"
	"testing"

	"github.com/erp/billing/internal/domain/partner"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomerRepository(setupBillingTestDB(t))

	acme, err := partner.NewCustomer("Acme Traders", "billing@acme.test", "12 Market Road")
	require.NoError(t, err)
	globex, err := partner.NewCustomer("Globex", "", "")
	require.NoError(t, err)
	initech, err := partner.NewCustomer("Initech", "", "")
	require.NoError(t, err)
	for _, c := range []*partner.Customer{acme, globex, initech} {
		require.NoError(t, repo.Save(ctx, c))
	}

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "billing@acme.test", got.Email)
		assert.Equal(t, "12 Market Road", got.Address)

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by id", func(t *testing.T) {
		ok, err := repo.ExistsByID(ctx, globex.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "ACME"

		customers, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, acme.ID, customers[0].ID)
	})

	t.Run("pages the full list", func(t *testing.T) {
		filter := shared.Filter{Page: 1, PageSize: 2, OrderBy: "name", OrderDir: "asc"}

		customers, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "Acme Traders", customers[0].Name)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}
