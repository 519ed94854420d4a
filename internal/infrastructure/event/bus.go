// Package event delivers committed domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/erp/billing/internal/domain/shared"
	"go.uber.org/zap"
)

// wildcard keys subscriptions that receive every event type
const wildcard = "*"

// InMemoryEventBus dispatches events synchronously to subscribed handlers.
// A failing or panicking handler is logged and delivery continues.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger.Named("event_bus"),
	}
}

// Publish delivers each event to its type's handlers, then to wildcard handlers.
// It never fails; handler errors are logged.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		for _, h := range b.handlersFor(evt.EventType()) {
			if err := dispatch(ctx, h, evt); err != nil {
				b.logger.Error("Handler failed to process event",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.String("aggregate_id", evt.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler for eventTypes, defaulting to the handler's
// own EventTypes. An empty list subscribes to every event. Subscribing the
// same handler twice to a type has no effect.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	keys := eventTypes
	if len(keys) == 0 {
		keys = []string{wildcard}
	}

	b.mu.Lock()
	for _, key := range keys {
		if !slices.Contains(b.handlers[key], handler) {
			b.handlers[key] = append(b.handlers[key], handler)
		}
	}
	b.mu.Unlock()

	b.logger.Debug("Handler subscribed", zap.Strings("event_types", keys))
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, hs := range b.handlers {
		hs = slices.DeleteFunc(slices.Clone(hs), func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(b.handlers, key)
			continue
		}
		b.handlers[key] = hs
	}
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Concat(b.handlers[eventType], b.handlers[wildcard])
}

func dispatch(ctx context.Context, h shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, evt)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
