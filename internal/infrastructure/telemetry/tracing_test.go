package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/billing/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	ctx, span := telemetry.StartServiceSpan(context.Background(), "invoice", "transition",
		"invoice_id", "abc",
		"overdue", true,
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	telemetry.SetAttributes(span, "to_status", "PAID", 42, "skipped")
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "invoice.transition", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "abc", attrs["invoice_id"])
	assert.Equal(t, "true", attrs["overdue"])
	assert.Equal(t, "PAID", attrs["to_status"])
	assert.Len(t, attrs, 3)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", telemetry.GetTraceID(context.Background()))
}
