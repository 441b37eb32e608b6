package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/application/commands/bus"
	"canvas-backend/application/queries"
	querybus "canvas-backend/application/queries/bus"
	"canvas-backend/pkg/common"
	pkgerrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

const maxBodyBytes = 32 << 20 // uploads arrive base64-encoded in JSON bodies

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	creator    *commands.CreateNodeHandler
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	creator *commands.CreateNodeHandler,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		creator:    creator,
		errors:     errors,
		logger:     logger,
	}
}

// CreateNode handles POST /nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateNodeCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(cmd); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	node, err := h.creator.Handle(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.NewNodeModel(node))
}

// GetNode handles GET /nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{
		NodeID: chi.URLParam(r, "nodeID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UpdateNode handles PUT /nodes/{nodeID}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateNodeCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// MoveNode handles PUT /nodes/{nodeID}/position
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.MoveNodeCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

// ResizeNode handles PUT /nodes/{nodeID}/size
func (h *NodeHandler) ResizeNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ResizeNodeCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "resized"})
}

// DeleteNode handles DELETE /nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteNodeCommand{NodeID: chi.URLParam(r, "nodeID")}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddRecording handles POST /nodes/{nodeID}/recordings
func (h *NodeHandler) AddRecording(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddRecordingCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "transcribing"})
}

// AddDocumentFile handles POST /nodes/{nodeID}/files
func (h *NodeHandler) AddDocumentFile(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddDocumentFileCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "extracting"})
}

// AddImage handles POST /nodes/{nodeID}/images
func (h *NodeHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddImageCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "analyzing"})
}

// AddWebsitePage handles POST /nodes/{nodeID}/pages
func (h *NodeHandler) AddWebsitePage(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddWebsitePageCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "fetching"})
}
