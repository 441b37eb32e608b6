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
	"canvas-backend/domain/services"
	pkgerrors "canvas-backend/pkg/errors"
)

// PostChatMessageCommand represents the command to send a user message to a
// chat node and obtain the model's reply
type PostChatMessageCommand struct {
	NodeID  string `json:"node_id" validate:"required,uuid"`
	Content string `json:"content" validate:"required,max=50000"`
}

// Validate validates the command
func (cmd PostChatMessageCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.Content == "" {
		return errors.New("message content is required")
	}
	return nil
}

// PostChatMessageHandler handles the PostChatMessageCommand
type PostChatMessageHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	model      ports.ChatModel
	builder    *services.ContextBuilder
	logger     *zap.Logger
}

// NewPostChatMessageHandler creates a new handler instance
func NewPostChatMessageHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	model ports.ChatModel,
	builder *services.ContextBuilder,
	logger *zap.Logger,
) *PostChatMessageHandler {
	return &PostChatMessageHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		model:      model,
		builder:    builder,
		logger:     logger,
	}
}

// Handle appends the user message, calls the model with the connected-source
// context, and appends the reply. The model call happens outside the canvas
// lock; if the chat node is deleted while the call is in flight, the reply
// merge is absorbed.
func (h *PostChatMessageHandler) Handle(ctx context.Context, cmd PostChatMessageCommand) (string, error) {
	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return "", err
	}

	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return "", err
	}

	var history []entities.ChatMessage
	var contextText string
	var pending []events.DomainEvent
	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		node := c.Node(nodeID)
		if node == nil {
			return pkgerrors.NewNotFoundError("chat node")
		}
		payload, ok := node.Payload().(*entities.ChatPayload)
		if !ok {
			return pkgerrors.NewValidationError("node is not a chat node")
		}

		messages := append([]entities.ChatMessage{}, payload.Messages...)
		messages = append(messages, entities.ChatMessage{Role: entities.RoleUser, Content: cmd.Content})

		updated := &entities.ChatPayload{Messages: messages, PanelHeight: payload.PanelHeight}
		if err := c.UpdateNodePayload(nodeID, updated, entities.StatusReady); err != nil {
			return err
		}

		history = messages
		contextText = h.builder.Build(c, nodeID)
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return "", err
	}
	publishEvents(ctx, h.eventBus, h.logger, pending)

	reply, err := h.model.Generate(ctx, history, contextText)
	if err != nil {
		h.logger.Error("model call failed",
			zap.String("provider", h.model.Provider()),
			zap.Error(err),
		)
		return "", pkgerrors.NewExternalError(h.model.Provider(), "model call failed")
	}

	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		node := c.Node(nodeID)
		if node == nil {
			return nil
		}
		payload, ok := node.Payload().(*entities.ChatPayload)
		if !ok {
			return nil
		}

		messages := append([]entities.ChatMessage{}, payload.Messages...)
		messages = append(messages, entities.ChatMessage{Role: entities.RoleModel, Content: reply})

		updated := &entities.ChatPayload{Messages: messages, PanelHeight: payload.PanelHeight}
		if err := c.UpdateNodePayload(nodeID, updated, entities.StatusReady); err != nil {
			return err
		}
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return "", err
	}
	publishEvents(ctx, h.eventBus, h.logger, pending)

	return reply, nil
}
