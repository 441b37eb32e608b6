package handlers

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/application/queries"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// GetNodeHandler serves a single node by id
type GetNodeHandler struct {
	canvasRepo ports.CanvasRepository
	logger     *zap.Logger
}

// NewGetNodeHandler creates a new handler instance
func NewGetNodeHandler(canvasRepo ports.CanvasRepository, logger *zap.Logger) *GetNodeHandler {
	return &GetNodeHandler{
		canvasRepo: canvasRepo,
		logger:     logger,
	}
}

// Handle resolves the node and maps it to its wire representation
func (h *GetNodeHandler) Handle(ctx context.Context, query queries.GetNodeQuery) (*queries.NodeModel, error) {
	nodeID, err := valueobjects.NewNodeIDFromString(query.NodeID)
	if err != nil {
		return nil, err
	}

	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	var model queries.NodeModel
	err = h.canvasRepo.View(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		node := c.Node(nodeID)
		if node == nil {
			return pkgerrors.NewNotFoundError("node")
		}
		model = queries.NewNodeModel(node)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model, nil
}
