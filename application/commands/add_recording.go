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

// AddRecordingCommand represents the command to append a captured clip to an
// audio node. Each recording is transcribed independently in the background.
type AddRecordingCommand struct {
	NodeID   string  `json:"node_id" validate:"required,uuid"`
	Data     []byte  `json:"data" validate:"required"`
	MimeType string  `json:"mime_type" validate:"required"`
	Duration float64 `json:"duration" validate:"gte=0"`
}

// Validate validates the command
func (cmd AddRecordingCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if len(cmd.Data) == 0 {
		return errors.New("recording data is required")
	}
	return nil
}

// AddRecordingHandler handles the AddRecordingCommand
type AddRecordingHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	enricher   Enricher
	logger     *zap.Logger
}

// NewAddRecordingHandler creates a new handler instance
func NewAddRecordingHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	enricher Enricher,
	logger *zap.Logger,
) *AddRecordingHandler {
	return &AddRecordingHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		enricher:   enricher,
		logger:     logger,
	}
}

// Handle appends the recording and kicks off its transcription
func (h *AddRecordingHandler) Handle(ctx context.Context, cmd AddRecordingCommand) error {
	nodeID, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
	if err != nil {
		return err
	}

	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return err
	}

	index := -1
	var pending []events.DomainEvent
	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		node := c.Node(nodeID)
		if node == nil {
			return pkgerrors.NewNotFoundError("node")
		}
		payload, ok := node.Payload().(*entities.AudioPayload)
		if !ok {
			return pkgerrors.NewValidationError("node is not an audio node")
		}

		recordings := append([]entities.Recording{}, payload.Recordings...)
		recordings = append(recordings, entities.Recording{
			Data:       cmd.Data,
			MimeType:   cmd.MimeType,
			Duration:   cmd.Duration,
			RecordedAt: time.Now(),
		})
		index = len(recordings) - 1

		updated := &entities.AudioPayload{Recordings: recordings}
		if err := c.UpdateNodePayload(nodeID, updated, entities.StatusLoading); err != nil {
			return err
		}
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return err
	}

	h.enricher.TranscribeRecording(canvas.ID(), nodeID, index, cmd.Data, cmd.MimeType)
	publishEvents(ctx, h.eventBus, h.logger, pending)
	return nil
}
