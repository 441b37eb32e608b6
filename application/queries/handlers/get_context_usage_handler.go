package handlers

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/application/queries"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/services"
)

// GetContextUsageHandler serves the estimated context window consumption for
// every chat node on the canvas
type GetContextUsageHandler struct {
	canvasRepo   ports.CanvasRepository
	estimator    *services.ContextEstimator
	systemPrompt string
	provider     string
	logger       *zap.Logger
}

// NewGetContextUsageHandler creates a new handler instance
func NewGetContextUsageHandler(
	canvasRepo ports.CanvasRepository,
	estimator *services.ContextEstimator,
	systemPrompt string,
	provider string,
	logger *zap.Logger,
) *GetContextUsageHandler {
	return &GetContextUsageHandler{
		canvasRepo:   canvasRepo,
		estimator:    estimator,
		systemPrompt: systemPrompt,
		provider:     provider,
		logger:       logger,
	}
}

// Handle estimates usage under the repository's read lock
func (h *GetContextUsageHandler) Handle(ctx context.Context, _ queries.GetContextUsageQuery) (*services.CanvasUsage, error) {
	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	var usage services.CanvasUsage
	err = h.canvasRepo.View(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		usage = h.estimator.EstimateCanvas(c, h.systemPrompt, h.provider)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &usage, nil
}
