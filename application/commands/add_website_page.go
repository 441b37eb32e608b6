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
	pkgerrors "canvas-backend/pkg/errors"
)

// AddWebsitePageCommand represents the command to add a page URL to a website
// node. The page content is fetched in the background.
type AddWebsitePageCommand struct {
	NodeID string `json:"node_id" validate:"required,uuid"`
	URL    string `json:"url" validate:"required,url"`
}

// Validate validates the command
func (cmd AddWebsitePageCommand) Validate() error {
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.URL == "" {
		return errors.New("URL is required")
	}
	return nil
}

// AddWebsitePageHandler handles the AddWebsitePageCommand
type AddWebsitePageHandler struct {
	canvasRepo ports.CanvasRepository
	eventBus   ports.EventBus
	enricher   Enricher
	logger     *zap.Logger
}

// NewAddWebsitePageHandler creates a new handler instance
func NewAddWebsitePageHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	enricher Enricher,
	logger *zap.Logger,
) *AddWebsitePageHandler {
	return &AddWebsitePageHandler{
		canvasRepo: canvasRepo,
		eventBus:   eventBus,
		enricher:   enricher,
		logger:     logger,
	}
}

// Handle marks the node loading and kicks off the page fetch. The fetched
// page is merged into the node's page list by URL when it resolves.
func (h *AddWebsitePageHandler) Handle(ctx context.Context, cmd AddWebsitePageCommand) error {
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
		if _, ok := node.Payload().(*entities.WebsitePayload); !ok {
			return pkgerrors.NewValidationError("node is not a website node")
		}

		node.MarkLoading()
		pending = drainEvents(c)
		return nil
	})
	if err != nil {
		return err
	}

	h.enricher.FetchPage(canvas.ID(), nodeID, cmd.URL)
	publishEvents(ctx, h.eventBus, h.logger, pending)
	return nil
}
