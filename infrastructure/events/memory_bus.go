package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/events"
)

// MemoryEventBus is an in-process event bus. Handlers run synchronously in
// registration order; a failing handler is logged and does not stop the rest.
type MemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]ports.EventHandler
	logger   *zap.Logger
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus(logger *zap.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]ports.EventHandler),
		logger:   logger,
	}
}

var _ ports.EventBus = (*MemoryEventBus)(nil)

// Publish sends a single event to its subscribers
func (b *MemoryEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	b.mu.RLock()
	handlers := append([]ports.EventHandler{}, b.handlers[event.GetEventType()]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.GetEventType()) {
			continue
		}
		if err := handler.Handle(ctx, event); err != nil {
			b.logger.Warn("event handler failed",
				zap.String("event_type", event.GetEventType()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// PublishBatch sends multiple events
func (b *MemoryEventBus) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := b.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *MemoryEventBus) Subscribe(eventType string, handler ports.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Unsubscribe removes a handler
func (b *MemoryEventBus) Unsubscribe(eventType string, handler ports.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			b.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
	return nil
}
