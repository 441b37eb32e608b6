//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"canvas-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideErrorHandler,
	ProvideDomainConfig,
	ProvideCanvasRepository,
	ProvideEventBus,
	ProvideAIProviders,
	ProvideWebsiteFetcher,
	ProvideVideoMetadataProvider,
	ProvideDocumentExtractor,
	ProvideEnricher,
	ProvideContextBuilder,
	ProvideContextEstimator,
	ProvideCreateNodeHandler,
	ProvideMoveNodeHandler,
	ProvideConnectNodesHandler,
	ProvidePostChatMessageHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideSessionManager,
	ProvideHub,
	ProvideBroadcaster,
	ProvideWSHandler,
	ProvideNodeHandler,
	ProvideEdgeHandler,
	ProvideCanvasHandler,
	ProvideChatHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
