// Package telemetry exports traces, metrics and logs over OTLP/gRPC and
// records the billing business metrics.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// flushTimeout caps how long a provider may spend exporting on shutdown
const flushTimeout = 10 * time.Second

// Collector is the OTLP endpoint shared by every signal and the service
// identity attached to what is exported
type Collector struct {
	Endpoint       string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
}

func (c Collector) resource() (*resource.Resource, error) {
	version := c.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}
	return res, nil
}

// flush runs a provider shutdown bounded by flushTimeout
func flush(ctx context.Context, signal string, log *zap.Logger, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown %s provider: %w", signal, err)
	}
	log.Info("Telemetry provider flushed", zap.String("signal", signal))
	return nil
}
