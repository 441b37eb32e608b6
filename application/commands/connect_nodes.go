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

// ConnectNodesCommand represents the command to commit an edge between two nodes
type ConnectNodesCommand struct {
	SourceID string `json:"source_id" validate:"required,uuid"`
	TargetID string `json:"target_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd ConnectNodesCommand) Validate() error {
	if cmd.SourceID == "" || cmd.TargetID == "" {
		return errors.New("source and target IDs are required")
	}
	return nil
}

// ConnectNodesHandler handles the ConnectNodesCommand
type ConnectNodesHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	logger     *zap.Logger
}

// NewConnectNodesHandler creates a new handler instance
func NewConnectNodesHandler(canvasRepo ports.CanvasRepository, eventBus ports.EventBus, logger *zap.Logger) *ConnectNodesHandler {
	return &ConnectNodesHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Handle executes the connect command and returns the committed edge
func (h *ConnectNodesHandler) Handle(ctx context.Context, cmd ConnectNodesCommand) (*aggregates.Edge, error) {
	sourceID, err := valueobjects.NewNodeIDFromString(cmd.SourceID)
	if err != nil {
		return nil, err
	}
	targetID, err := valueobjects.NewNodeIDFromString(cmd.TargetID)
	if err != nil {
		return nil, err
	}

	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	var edge *aggregates.Edge
	var pending []events.DomainEvent
	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		committed, err := c.Connect(sourceID, targetID)
		if err != nil {
			return err
		}
		edge = committed
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, h.eventBus, h.logger, pending)

	h.logger.Info("nodes connected",
		zap.String("edge_id", edge.ID),
		zap.String("source_id", cmd.SourceID),
		zap.String("target_id", cmd.TargetID),
	)

	return edge, nil
}
