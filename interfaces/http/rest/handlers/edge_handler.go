package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/application/commands/bus"
	"canvas-backend/application/queries"
	"canvas-backend/pkg/common"
	pkgerrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// EdgeHandler handles connection-related HTTP requests
type EdgeHandler struct {
	commandBus *bus.CommandBus
	connector  *commands.ConnectNodesHandler
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewEdgeHandler creates a new edge handler
func NewEdgeHandler(
	commandBus *bus.CommandBus,
	connector *commands.ConnectNodesHandler,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *EdgeHandler {
	return &EdgeHandler{
		commandBus: commandBus,
		connector:  connector,
		errors:     errors,
		logger:     logger,
	}
}

// CreateEdge handles POST /edges
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ConnectNodesCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(cmd); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	edge, err := h.connector.Handle(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.NewEdgeModel(edge))
}

// DeleteEdge handles DELETE /edges/{edgeID}
func (h *EdgeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DisconnectNodesCommand{EdgeID: chi.URLParam(r, "edgeID")}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}
