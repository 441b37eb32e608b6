package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/pkg/common"
	pkgerrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// ChatHandler handles chat-node HTTP requests
type ChatHandler struct {
	poster *commands.PostChatMessageHandler
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	poster *commands.PostChatMessageHandler,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		poster: poster,
		errors: errors,
		logger: logger,
	}
}

// PostMessage handles POST /nodes/{nodeID}/messages
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var cmd commands.PostChatMessageCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")

	if err := utils.ValidateStruct(cmd); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	reply, err := h.poster.Handle(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
