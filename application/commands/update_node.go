package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/domain/events"
	pkgerrors "canvas-backend/pkg/errors"
)

// UpdateNodeCommand represents the command to edit a node's text content.
// Only text and group nodes carry user-editable text.
type UpdateNodeCommand struct {
	NodeID  string `json:"node_id" validate:"required,uuid"`
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"max=50000"`
}

// Validate validates the command
func (cmd UpdateNodeCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// UpdateNodeHandler handles the UpdateNodeCommand
type UpdateNodeHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	logger     *zap.Logger
}

// NewUpdateNodeHandler creates a new handler instance
func NewUpdateNodeHandler(canvasRepo ports.CanvasRepository, eventBus ports.EventBus, logger *zap.Logger) *UpdateNodeHandler {
	return &UpdateNodeHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Handle executes the update node command
func (h *UpdateNodeHandler) Handle(ctx context.Context, cmd UpdateNodeCommand) error {
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
		node := c.Node(nodeID)
		if node == nil {
			return pkgerrors.NewNotFoundError("node")
		}

		switch p := node.Payload().(type) {
		case *entities.TextPayload:
			updated := &entities.TextPayload{Title: cmd.Title, Content: cmd.Content, Box: p.Box}
			if err := c.UpdateNodePayload(nodeID, updated, entities.StatusReady); err != nil {
				return err
			}
		case *entities.GroupPayload:
			updated := &entities.GroupPayload{Title: cmd.Title, Box: p.Box, MemberIDs: p.MemberIDs}
			if err := c.UpdateNodePayload(nodeID, updated, entities.StatusReady); err != nil {
				return err
			}
		default:
			return pkgerrors.NewValidationError("node kind has no editable text: " + string(node.Kind()))
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
