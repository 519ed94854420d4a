package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventSource is an aggregate whose pending events are published after commit
type EventSource interface {
	GetID() uuid.UUID
	PullDomainEvents() []DomainEvent
}

// BaseAggregateRoot carries identity, audit timestamps, the optimistic-lock
// version and the events raised since the aggregate was loaded
type BaseAggregateRoot struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int

	domainEvents []DomainEvent
}

// NewBaseAggregateRoot creates a fresh aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now().UTC()
	return BaseAggregateRoot{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// GetID returns the aggregate ID
func (a *BaseAggregateRoot) GetID() uuid.UUID {
	return a.ID
}

// MarkChanged stamps a modification and bumps the version
func (a *BaseAggregateRoot) MarkChanged() {
	a.UpdatedAt = time.Now().UTC()
	a.Version++
}

// AddDomainEvent queues an event for publication after commit
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// PullDomainEvents returns the pending events and clears them
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}
