package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/events"
)

// DisconnectNodesCommand represents the command to remove an edge
type DisconnectNodesCommand struct {
	EdgeID string `json:"edge_id" validate:"required"`
}

// Validate validates the command
func (cmd DisconnectNodesCommand) Validate() error {
	if cmd.EdgeID == "" {
		return errors.New("edge ID is required")
	}
	return nil
}

// DisconnectNodesHandler handles the DisconnectNodesCommand
type DisconnectNodesHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	logger     *zap.Logger
}

// NewDisconnectNodesHandler creates a new handler instance
func NewDisconnectNodesHandler(canvasRepo ports.CanvasRepository, eventBus ports.EventBus, logger *zap.Logger) *DisconnectNodesHandler {
	return &DisconnectNodesHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Handle executes the disconnect command
func (h *DisconnectNodesHandler) Handle(ctx context.Context, cmd DisconnectNodesCommand) error {
	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return err
	}

	var pending []events.DomainEvent
	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		if err := c.Disconnect(cmd.EdgeID); err != nil {
			return err
		}
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return err
	}

	publishEvents(ctx, h.eventBus, h.logger, pending)
	return nil
}
