package di

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"canvas-backend/application/commands"
	commandbus "canvas-backend/application/commands/bus"
	"canvas-backend/application/ports"
	querybus "canvas-backend/application/queries/bus"
	appservices "canvas-backend/application/services"
	domaincfg "canvas-backend/domain/config"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/infrastructure/ai"
	"canvas-backend/infrastructure/config"
	"canvas-backend/infrastructure/enrichment"
	infraevents "canvas-backend/infrastructure/events"
	"canvas-backend/infrastructure/persistence/memory"
	"canvas-backend/interfaces/http/rest"
	"canvas-backend/interfaces/http/rest/handlers"
	ws "canvas-backend/interfaces/websocket"
	pkgerrors "canvas-backend/pkg/errors"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger)
}

// ProvideDomainConfig creates the domain configuration
func ProvideDomainConfig() *domaincfg.DomainConfig {
	return domaincfg.DefaultDomainConfig()
}

// ProvideCanvasRepository creates the in-memory canvas repository
func ProvideCanvasRepository(logger *zap.Logger) ports.CanvasRepository {
	return memory.NewCanvasRepository(logger)
}

// ProvideEventBus creates the in-process event bus
func ProvideEventBus(logger *zap.Logger) ports.EventBus {
	return infraevents.NewMemoryEventBus(logger)
}

// ProvideAIProviders creates the configured model provider set
func ProvideAIProviders(cfg *config.Config, logger *zap.Logger) (*ai.Providers, error) {
	return ai.NewProviders(cfg, logger)
}

// ProvideWebsiteFetcher creates the website fetcher
func ProvideWebsiteFetcher(cfg *config.Config, logger *zap.Logger) (ports.WebsiteFetcher, error) {
	return enrichment.NewWebsiteFetcher(cfg.WebsiteCacheSize, logger)
}

// ProvideVideoMetadataProvider creates the video metadata provider
func ProvideVideoMetadataProvider(cfg *config.Config, logger *zap.Logger) (ports.VideoMetadataProvider, error) {
	return enrichment.NewVideoMetadataProvider(cfg.VideoCacheSize, logger)
}

// ProvideDocumentExtractor creates the document extractor
func ProvideDocumentExtractor(logger *zap.Logger) ports.DocumentExtractor {
	return enrichment.NewDocumentExtractor(logger)
}

// ProvideEnricher creates the background enrichment service
func ProvideEnricher(
	canvasRepo ports.CanvasRepository,
	video ports.VideoMetadataProvider,
	websites ports.WebsiteFetcher,
	documents ports.DocumentExtractor,
	providers *ai.Providers,
	logger *zap.Logger,
) commands.Enricher {
	return appservices.NewEnrichmentService(
		canvasRepo,
		video,
		websites,
		documents,
		providers.Vision,
		providers.Transcriber,
		logger,
	)
}

// ProvideContextBuilder creates the chat context builder
func ProvideContextBuilder(domainCfg *domaincfg.DomainConfig) *domainservices.ContextBuilder {
	return domainservices.NewContextBuilder(domainCfg)
}

// ProvideContextEstimator creates the context usage estimator
func ProvideContextEstimator(domainCfg *domaincfg.DomainConfig) *domainservices.ContextEstimator {
	return domainservices.NewContextEstimator(domainCfg)
}

// ProvideCreateNodeHandler creates the node creation handler
func ProvideCreateNodeHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	enricher commands.Enricher,
	logger *zap.Logger,
) *commands.CreateNodeHandler {
	return commands.NewCreateNodeHandler(canvasRepo, eventBus, enricher, logger)
}

// ProvideMoveNodeHandler creates the node move handler. It is shared between
// the command bus and the interaction sessions, which call it directly on
// every drag frame.
func ProvideMoveNodeHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *commands.MoveNodeHandler {
	return commands.NewMoveNodeHandler(canvasRepo, eventBus, logger)
}

// ProvideConnectNodesHandler creates the connection handler
func ProvideConnectNodesHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *commands.ConnectNodesHandler {
	return commands.NewConnectNodesHandler(canvasRepo, eventBus, logger)
}

// ProvidePostChatMessageHandler creates the chat message handler
func ProvidePostChatMessageHandler(
	canvasRepo ports.CanvasRepository,
	eventBus ports.EventBus,
	providers *ai.Providers,
	builder *domainservices.ContextBuilder,
	logger *zap.Logger,
) *commands.PostChatMessageHandler {
	return commands.NewPostChatMessageHandler(canvasRepo, eventBus, providers.Chat, builder, logger)
}

// ProvideSessionManager creates the interaction session manager
func ProvideSessionManager(
	canvasRepo ports.CanvasRepository,
	mover *commands.MoveNodeHandler,
	connector *commands.ConnectNodesHandler,
	domainCfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *appservices.SessionManager {
	return appservices.NewSessionManager(canvasRepo, mover, connector, domainCfg, logger)
}

// ProvideHub creates the websocket hub
func ProvideHub(logger *zap.Logger) *ws.Hub {
	return ws.NewHub(logger)
}

// ProvideBroadcaster creates the event broadcaster
func ProvideBroadcaster(hub *ws.Hub, logger *zap.Logger) *ws.Broadcaster {
	return ws.NewBroadcaster(hub, logger)
}

// ProvideWSHandler creates the websocket upgrade handler
func ProvideWSHandler(hub *ws.Hub, sessions *appservices.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return ws.ServeWS(hub, sessions, logger)
}

// ProvideNodeHandler creates the node REST handler
func ProvideNodeHandler(
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	creator *commands.CreateNodeHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.NodeHandler {
	return handlers.NewNodeHandler(commandBus, queryBus, creator, errorHandler, logger)
}

// ProvideEdgeHandler creates the edge REST handler
func ProvideEdgeHandler(
	commandBus *commandbus.CommandBus,
	connector *commands.ConnectNodesHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.EdgeHandler {
	return handlers.NewEdgeHandler(commandBus, connector, errorHandler, logger)
}

// ProvideCanvasHandler creates the canvas REST handler
func ProvideCanvasHandler(
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.CanvasHandler {
	return handlers.NewCanvasHandler(queryBus, errorHandler, logger)
}

// ProvideChatHandler creates the chat REST handler
func ProvideChatHandler(
	poster *commands.PostChatMessageHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.ChatHandler {
	return handlers.NewChatHandler(poster, errorHandler, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	nodeHandler *handlers.NodeHandler,
	edgeHandler *handlers.EdgeHandler,
	canvasHandler *handlers.CanvasHandler,
	chatHandler *handlers.ChatHandler,
	wsHandler http.HandlerFunc,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, nodeHandler, edgeHandler, canvasHandler, chatHandler, wsHandler, logger)
}
