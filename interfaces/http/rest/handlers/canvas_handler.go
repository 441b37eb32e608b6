package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"canvas-backend/application/queries"
	querybus "canvas-backend/application/queries/bus"
	"canvas-backend/pkg/common"
	pkgerrors "canvas-backend/pkg/errors"
)

// CanvasHandler handles canvas-level HTTP requests
type CanvasHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(
	queryBus *querybus.QueryBus,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *CanvasHandler {
	return &CanvasHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// GetCanvas handles GET /canvas
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.queryBus.Ask(r.Context(), queries.GetCanvasQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, snapshot)
}

// GetContextUsage handles GET /canvas/context-usage
func (h *CanvasHandler) GetContextUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.queryBus.Ask(r.Context(), queries.GetContextUsageQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, usage)
}
