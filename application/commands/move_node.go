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

// MoveNodeCommand represents the command to move a node to a new canvas position
type MoveNodeCommand struct {
	NodeID string  `json:"node_id" validate:"required,uuid"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Validate validates the command
func (cmd MoveNodeCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// MoveNodeHandler handles the MoveNodeCommand
type MoveNodeHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	logger     *zap.Logger
}

// NewMoveNodeHandler creates a new handler instance
func NewMoveNodeHandler(canvasRepo ports.CanvasRepository, eventBus ports.EventBus, logger *zap.Logger) *MoveNodeHandler {
	return &MoveNodeHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Handle executes the move node command
func (h *MoveNodeHandler) Handle(ctx context.Context, cmd MoveNodeCommand) error {
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
		if err := c.MoveNode(nodeID, valueobjects.NewPosition(cmd.X, cmd.Y)); err != nil {
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
