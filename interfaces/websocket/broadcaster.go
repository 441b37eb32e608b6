package websocket

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/events"
)

// Broadcaster relays domain events to every connected client so all canvases
// stay in sync. It subscribes to the node and connection event families.
type Broadcaster struct {
	hub    *Hub
	logger *zap.Logger
}

var _ ports.EventHandler = (*Broadcaster)(nil)

// NewBroadcaster creates an event broadcaster backed by the hub
func NewBroadcaster(hub *Hub, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, logger: logger}
}

// Subscribe registers the broadcaster for all canvas event types
func (b *Broadcaster) Subscribe(bus ports.EventBus) error {
	for _, eventType := range []string{
		"node.created", "node.moved", "node.updated", "node.removed",
		"nodes.connected", "nodes.disconnected",
	} {
		if err := bus.Subscribe(eventType, b); err != nil {
			return err
		}
	}
	return nil
}

// CanHandle reports whether the event type is relayed to clients
func (b *Broadcaster) CanHandle(eventType string) bool {
	return strings.HasPrefix(eventType, "node.") || strings.HasPrefix(eventType, "nodes.")
}

// Handle relays the event to every connected client
func (b *Broadcaster) Handle(_ context.Context, event events.DomainEvent) error {
	if err := b.hub.Broadcast(event.GetEventType(), event); err != nil {
		b.logger.Warn("event broadcast failed",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
	return nil
}
