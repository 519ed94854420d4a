package cache

import (
	"context"
	"testing"

	"github.com/erp/billing/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// unreachableRedis points at a closed local port so the ping fails fast
var unreachableRedis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("no redis host uses memory", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(config.RedisConfig{}).CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis falls back with a warning", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		factory := NewIdempotencyStoreFactory(unreachableRedis, WithLogger(zap.New(core)))

		store, err := factory.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("fallback can be disabled", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(unreachableRedis, WithInMemoryFallback(false), WithKeyPrefix("test:"))

		store, err := factory.CreateStore(ctx)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}
