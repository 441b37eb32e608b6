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

// ResizeNodeCommand represents the command to resize a node's box
type ResizeNodeCommand struct {
	NodeID string  `json:"node_id" validate:"required,uuid"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// Validate validates the command
func (cmd ResizeNodeCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.Width <= 0 || cmd.Height <= 0 {
		return errors.New("size must be positive")
	}
	return nil
}

// ResizeNodeHandler handles the ResizeNodeCommand
type ResizeNodeHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	logger     *zap.Logger
}

// NewResizeNodeHandler creates a new handler instance
func NewResizeNodeHandler(canvasRepo ports.CanvasRepository, eventBus ports.EventBus, logger *zap.Logger) *ResizeNodeHandler {
	return &ResizeNodeHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Handle executes the resize node command
func (h *ResizeNodeHandler) Handle(ctx context.Context, cmd ResizeNodeCommand) error {
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
		if err := c.ResizeNode(nodeID, valueobjects.NewSize(cmd.Width, cmd.Height)); err != nil {
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
