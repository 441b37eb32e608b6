package commands

import (
	"context"
	"encoding/base64"
	"errors"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/domain/events"
	pkgerrors "canvas-backend/pkg/errors"
)

// AddImageCommand represents the command to attach an image to an image node.
// Vision analysis runs in the background.
type AddImageCommand struct {
	NodeID   string `json:"node_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,max=255"`
	MimeType string `json:"mime_type" validate:"required"`
	Data     string `json:"data" validate:"required,base64"`
}

// Validate validates the command
func (cmd AddImageCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.Data == "" {
		return errors.New("image data is required")
	}
	if _, err := base64.StdEncoding.DecodeString(cmd.Data); err != nil {
		return errors.New("image data must be base64 encoded")
	}
	return nil
}

// AddImageHandler handles the AddImageCommand
type AddImageHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	enricher   Enricher
	logger     *zap.Logger
}

// NewAddImageHandler creates a new handler instance
func NewAddImageHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	enricher Enricher,
	logger *zap.Logger,
) *AddImageHandler {
	return &AddImageHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		enricher:   enricher,
		logger:     logger,
	}
}

// Handle attaches the image and kicks off vision analysis
func (h *AddImageHandler) Handle(ctx context.Context, cmd AddImageCommand) error {
	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}

	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return err
	}

	decoded, err := base64.StdEncoding.DecodeString(cmd.Data)
	if err != nil {
		return pkgerrors.NewValidationError("image data must be base64 encoded")
	}

	var pending []events.DomainEvent
	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		node := c.Node(nodeID)
		if node == nil {
			return pkgerrors.NewNotFoundError("node")
		}
		payload, ok := node.Payload().(*entities.ImagePayload)
		if !ok {
			return pkgerrors.NewValidationError("node is not an image node")
		}

		images := append([]entities.ImageAttachment{}, payload.Images...)
		images = append(images, entities.ImageAttachment{
			Name:     cmd.Name,
			MimeType: cmd.MimeType,
			Size:     int64(len(decoded)),
			Data:     cmd.Data,
		})

		updated := &entities.ImagePayload{Images: images}
		if err := c.UpdateNodePayload(nodeID, updated, entities.StatusLoading); err != nil {
			return err
		}
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return err
	}

	h.enricher.AnalyzeImage(canvas.ID(), nodeID, cmd.Name, cmd.Data, cmd.MimeType)
	publishEvents(ctx, h.eventBus, h.logger, pending)
	return nil
}
