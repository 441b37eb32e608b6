package ports

import (
	"context"

	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/events"
)

// CanvasRepository defines the interface for canvas persistence
// This is a port in hexagonal architecture - the application doesn't know about the implementation
type CanvasRepository interface {
	// Save persists a canvas (create or update)
	Save(ctx context.Context, canvas *aggregates.Canvas) error

	// GetByID retrieves a canvas by its ID
	GetByID(ctx context.Context, id aggregates.CanvasID) (*aggregates.Canvas, error)

	// GetOrCreateDefault gets the default canvas, creating it on first access
	GetOrCreateDefault(ctx context.Context) (*aggregates.Canvas, error)

	// Update applies fn to the canvas under the repository's write lock. All
	// mutations go through here so concurrent handlers never interleave
	// partial aggregate state.
	Update(ctx context.Context, id aggregates.CanvasID, fn func(*aggregates.Canvas) error) error

	// View applies fn to the canvas under the repository's read lock. fn
	// must not mutate the aggregate.
	View(ctx context.Context, id aggregates.CanvasID, fn func(*aggregates.Canvas) error) error

	// Delete removes a canvas and everything on it
	Delete(ctx context.Context, id aggregates.CanvasID) error
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error

	// Subscribe registers a handler for an event type
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler
	Unsubscribe(eventType string, handler EventHandler) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}
