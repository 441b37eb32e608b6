package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/domain/events"
	pkgerrors "canvas-backend/pkg/errors"
)

// AddDocumentFileCommand represents the command to attach an uploaded file to
// a document node. Text extraction runs in the background.
type AddDocumentFileCommand struct {
	NodeID   string `json:"node_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,max=255"`
	MimeType string `json:"mime_type" validate:"required"`
	Data     []byte `json:"data" validate:"required"`
}

// Validate validates the command
func (cmd AddDocumentFileCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.Name == "" {
		return errors.New("file name is required")
	}
	if len(cmd.Data) == 0 {
		return errors.New("file data is required")
	}
	return nil
}

// AddDocumentFileHandler handles the AddDocumentFileCommand
type AddDocumentFileHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	enricher   Enricher
	logger     *zap.Logger
}

// NewAddDocumentFileHandler creates a new handler instance
func NewAddDocumentFileHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	enricher Enricher,
	logger *zap.Logger,
) *AddDocumentFileHandler {
	return &AddDocumentFileHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		enricher:   enricher,
		logger:     logger,
	}
}

// Handle attaches the file and kicks off content extraction
func (h *AddDocumentFileHandler) Handle(ctx context.Context, cmd AddDocumentFileCommand) error {
	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}

	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return err
	}

	var pending []events.DomainEvent
	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		node := c.Node(nodeID)
		if node == nil {
			return pkgerrors.NewNotFoundError("node")
		}
		payload, ok := node.Payload().(*entities.DocumentPayload)
		if !ok {
			return pkgerrors.NewValidationError("node is not a document node")
		}

		files := append([]entities.DocumentFile{}, payload.Files...)
		files = append(files, entities.DocumentFile{
			Name:       cmd.Name,
			MimeType:   cmd.MimeType,
			Size:       int64(len(cmd.Data)),
			UploadedAt: time.Now(),
		})

		updated := &entities.DocumentPayload{Files: files}
		if err := c.UpdateNodePayload(nodeID, updated, entities.StatusLoading); err != nil {
			return err
		}
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return err
	}

	h.enricher.ExtractFile(canvas.ID(), nodeID, cmd.Name, cmd.MimeType, cmd.Data)
	publishEvents(ctx, h.eventBus, h.logger, pending)
	return nil
}
