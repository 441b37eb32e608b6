package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// Enricher kicks off asynchronous payload enrichment. Implementations run in
// the background and merge results back into the canvas by node id; a node
// deleted before the fetch resolves absorbs the merge silently.
type Enricher interface {
	EnrichVideo(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, url string)
	FetchPage(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, url string)
	ExtractFile(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, name, mimeType string, data []byte)
	AnalyzeImage(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, name string, data string, mimeType string)
	TranscribeRecording(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, index int, data []byte, mimeType string)
}

// CreateNodeCommand represents the command to place a new node on the canvas
type CreateNodeCommand struct {
	Kind      string  `json:"kind" validate:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	SourceURL string  `json:"source_url,omitempty" validate:"omitempty,url"`
	Title     string  `json:"title,omitempty" validate:"max=200"`
	Content   string  `json:"content,omitempty" validate:"max=50000"`
}

// Validate validates the command
func (cmd CreateNodeCommand) Validate() error {
	kind, err := entities.ParseNodeKind(cmd.Kind)
	if err != nil {
		return err
	}
	if kind == entities.KindVideo && cmd.SourceURL == "" {
		return errors.New("video nodes require a source URL")
	}
	return nil
}

// CreateNodeHandler handles the CreateNodeCommand
type CreateNodeHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	enricher   Enricher
	logger     *zap.Logger
}

// NewCreateNodeHandler creates a new handler instance
func NewCreateNodeHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	enricher Enricher,
	logger *zap.Logger,
) *CreateNodeHandler {
	return &CreateNodeHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		enricher:   enricher,
		logger:     logger,
	}
}

// Handle executes the create node command. Kinds that need enrichment are
// inserted immediately in a loading state and filled in when the background
// fetch resolves.
func (h *CreateNodeHandler) Handle(ctx context.Context, cmd CreateNodeCommand) (*entities.Node, error) {
	kind, err := entities.ParseNodeKind(cmd.Kind)
	if err != nil {
		return nil, err
	}

	canvas, err := h.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	position := valueobjects.NewPosition(cmd.X, cmd.Y)
	payload, needsEnrichment := seedPayload(kind, cmd)

	node, err := entities.NewNode(kind, position, payload)
	if err != nil {
		return nil, err
	}
	if needsEnrichment {
		node.MarkLoading()
	}

	err = h.canvasRepo.Update(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		return c.AddNode(node)
	})
	if err != nil {
		return nil, err
	}

	switch kind {
	case entities.KindVideo:
		h.enricher.EnrichVideo(canvas.ID(), node.ID(), cmd.SourceURL)
	case entities.KindWebsite:
		if cmd.SourceURL != "" {
			h.enricher.FetchPage(canvas.ID(), node.ID(), cmd.SourceURL)
		}
	}

	h.publishEvents(ctx, node)

	h.logger.Info("node created",
		zap.String("node_id", node.ID().String()),
		zap.String("kind", string(kind)),
	)

	return node, nil
}

// seedPayload builds the initial payload for a freshly created node and
// reports whether the kind needs asynchronous enrichment before it is ready
func seedPayload(kind entities.NodeKind, cmd CreateNodeCommand) (entities.Payload, bool) {
	switch kind {
	case entities.KindVideo:
		return &entities.VideoPayload{SourceURL: cmd.SourceURL, Title: cmd.Title}, true
	case entities.KindDocument:
		return &entities.DocumentPayload{Files: []entities.DocumentFile{}}, false
	case entities.KindText:
		return &entities.TextPayload{
			Title:   cmd.Title,
			Content: cmd.Content,
			Box:     valueobjects.NewSize(240, 140),
		}, false
	case entities.KindWebsite:
		return &entities.WebsitePayload{Pages: []entities.WebsitePage{}}, cmd.SourceURL != ""
	case entities.KindAudio:
		return &entities.AudioPayload{Recordings: []entities.Recording{}}, false
	case entities.KindImage:
		return &entities.ImagePayload{Images: []entities.ImageAttachment{}}, false
	case entities.KindChat:
		return &entities.ChatPayload{Messages: []entities.ChatMessage{}}, false
	case entities.KindGroup:
		return &entities.GroupPayload{
			Title: cmd.Title,
			Box:   valueobjects.NewSize(400, 300),
		}, false
	default:
		return nil, false
	}
}

func (h *CreateNodeHandler) publishEvents(ctx context.Context, node *entities.Node) {
	if err := h.eventBus.PublishBatch(ctx, node.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish node events", zap.Error(err))
	}
	node.MarkEventsAsCommitted()
}
