package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/domain/events"
)

// DeleteNodeCommand represents the command to remove a node and cascade its edges
type DeleteNodeCommand struct {
	NodeID string `json:"node_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd DeleteNodeCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// DeleteNodeHandler handles the DeleteNodeCommand
type DeleteNodeHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	logger     *zap.Logger
}

// NewDeleteNodeHandler creates a new handler instance
func NewDeleteNodeHandler(canvasRepo ports.CanvasRepository, eventBus ports.EventBus, logger *zap.Logger) *DeleteNodeHandler {
	return &DeleteNodeHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Handle executes the delete node command. Edge cleanup happens inside the
// same aggregate mutation so no dangling edge is ever observable.
func (h *DeleteNodeHandler) Handle(ctx context.Context, cmd DeleteNodeCommand) error {
	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}

	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return err
	}

	var pending []events.DomainEvent
	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		if err := c.RemoveNode(nodeID); err != nil {
			return err
		}
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return err
	}

	publishEvents(ctx, h.eventBus, h.logger, pending)

	h.logger.Info("node deleted", zap.String("node_id", cmd.NodeID))
	return nil
}
