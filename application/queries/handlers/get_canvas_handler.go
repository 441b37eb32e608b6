package handlers

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/application/queries"
	"canvas-backend/domain/core/aggregates"
)

// GetCanvasHandler serves the full canvas snapshot
type GetCanvasHandler struct {
	canvasRepo ports.CanvasRepository
	logger     *zap.Logger
}

// NewGetCanvasHandler creates a new handler instance
func NewGetCanvasHandler(canvasRepo ports.CanvasRepository, logger *zap.Logger) *GetCanvasHandler {
	return &GetCanvasHandler{
		canvasRepo: canvasRepo,
		logger:     logger,
	}
}

// Handle builds the snapshot under the repository's read lock
func (h *GetCanvasHandler) Handle(ctx context.Context, _ queries.GetCanvasQuery) (*queries.CanvasSnapshot, error) {
	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	var snapshot queries.CanvasSnapshot
	err = h.canvasRepo.View(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		snapshot = queries.NewCanvasSnapshot(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}
