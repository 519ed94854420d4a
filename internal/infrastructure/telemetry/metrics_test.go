package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/erp/billing/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		ExportInterval: 5 * time.Second,
		Collector: telemetry.Collector{
			Endpoint:    "localhost:14317",
			ServiceName: "billing-test",
		},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestMeterProvider_DisabledMeterIsUsable(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	meter := mp.Meter("billing")
	require.NotNil(t, meter)

	counter, err := meter.Int64Counter("billing_test_total")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	bm, err := telemetry.NewBusinessMetrics(meter)
	require.NoError(t, err)
	bm.RecordDocumentCreated(ctx, telemetry.DocumentTypeInvoice, 100)
}
