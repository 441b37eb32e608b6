package commands

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/events"
	"canvas-backend/pkg/common"
)

// drainEvents collects and clears the canvas's uncommitted events. Called
// inside the repository's Update closure so the drain happens under the
// canvas lock.
func drainEvents(c *aggregates.Canvas) []events.DomainEvent {
	pending := c.GetUncommittedEvents()
	c.MarkEventsAsCommitted()
	return pending
}

// publishEvents publishes drained events, logging failures instead of
// failing the command
func publishEvents(ctx context.Context, bus ports.EventBus, logger *zap.Logger, pending []events.DomainEvent) {
	if len(pending) == 0 {
		return
	}
	if err := bus.PublishBatch(ctx, pending); err != nil {
		fields := []zap.Field{zap.Error(err)}
		if sessionID, ok := common.GetSessionID(ctx); ok {
			fields = append(fields, zap.String("session_id", sessionID))
		}
		logger.Warn("failed to publish domain events", fields...)
	}
}
