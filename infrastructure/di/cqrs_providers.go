package di

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/commands"
	commandbus "canvas-backend/application/commands/bus"
	"canvas-backend/application/ports"
	"canvas-backend/application/queries"
	querybus "canvas-backend/application/queries/bus"
	queryhandlers "canvas-backend/application/queries/handlers"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/infrastructure/config"
)

// ProvideCommandBus creates the command bus and registers a handler for every
// dispatched command type. Commands that return values (create, connect, chat)
// are not routed through the bus; their typed handlers are injected directly
// where the result is needed.
func ProvideCommandBus(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	enricher commands.Enricher,
	mover *commands.MoveNodeHandler,
	logger *zap.Logger,
) (*commandbus.CommandBus, error) {
	b := commandbus.NewCommandBus()

	resizer := commands.NewResizeNodeHandler(canvasRepo, eventBus, logger)
	updater := commands.NewUpdateNodeHandler(canvasRepo, eventBus, logger)
	deleter := commands.NewDeleteNodeHandler(canvasRepo, eventBus, logger)
	disconnector := commands.NewDisconnectNodesHandler(canvasRepo, eventBus, logger)
	recorder := commands.NewAddRecordingHandler(canvasRepo, eventBus, enricher, logger)
	filer := commands.NewAddDocumentFileHandler(canvasRepo, eventBus, enricher, logger)
	imager := commands.NewAddImageHandler(canvasRepo, eventBus, enricher, logger)
	pager := commands.NewAddWebsitePageHandler(canvasRepo, eventBus, enricher, logger)

	registrations := []struct {
		cmd     commandbus.Command
		handler commandbus.CommandHandler
	}{
		{commands.MoveNodeCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return mover.Handle(ctx, cmd.(commands.MoveNodeCommand))
		})},
		{commands.ResizeNodeCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return resizer.Handle(ctx, cmd.(commands.ResizeNodeCommand))
		})},
		{commands.UpdateNodeCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return updater.Handle(ctx, cmd.(commands.UpdateNodeCommand))
		})},
		{commands.DeleteNodeCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return deleter.Handle(ctx, cmd.(commands.DeleteNodeCommand))
		})},
		{commands.DisconnectNodesCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return disconnector.Handle(ctx, cmd.(commands.DisconnectNodesCommand))
		})},
		{commands.AddRecordingCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return recorder.Handle(ctx, cmd.(commands.AddRecordingCommand))
		})},
		{commands.AddDocumentFileCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return filer.Handle(ctx, cmd.(commands.AddDocumentFileCommand))
		})},
		{commands.AddImageCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return imager.Handle(ctx, cmd.(commands.AddImageCommand))
		})},
		{commands.AddWebsitePageCommand{}, commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) error {
			return pager.Handle(ctx, cmd.(commands.AddWebsitePageCommand))
		})},
	}

	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// ProvideQueryBus creates the query bus and registers all query handlers
func ProvideQueryBus(
	cfg *config.Config,
	canvasRepo ports.CanvasRepository,
	estimator *domainservices.ContextEstimator,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	b := querybus.NewQueryBus()

	canvasHandler := queryhandlers.NewGetCanvasHandler(canvasRepo, logger)
	nodeHandler := queryhandlers.NewGetNodeHandler(canvasRepo, logger)
	usageHandler := queryhandlers.NewGetContextUsageHandler(canvasRepo, estimator, cfg.SystemPrompt, cfg.Provider, logger)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetCanvasQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return canvasHandler.Handle(ctx, q.(queries.GetCanvasQuery))
		})},
		{queries.GetNodeQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return nodeHandler.Handle(ctx, q.(queries.GetNodeQuery))
		})},
		{queries.GetContextUsageQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return usageHandler.Handle(ctx, q.(queries.GetContextUsageQuery))
		})},
	}

	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return nil, err
		}
	}

	return b, nil
}
