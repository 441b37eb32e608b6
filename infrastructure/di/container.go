package di

import (
	"net/http"

	"go.uber.org/zap"

	"canvas-backend/application/commands"
	commandbus "canvas-backend/application/commands/bus"
	"canvas-backend/application/ports"
	querybus "canvas-backend/application/queries/bus"
	appservices "canvas-backend/application/services"
	domaincfg "canvas-backend/domain/config"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/infrastructure/ai"
	"canvas-backend/infrastructure/config"
	"canvas-backend/interfaces/http/rest"
	"canvas-backend/interfaces/http/rest/handlers"
	ws "canvas-backend/interfaces/websocket"
	pkgerrors "canvas-backend/pkg/errors"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	ErrorHandler     *pkgerrors.ErrorHandler
	DomainConfig     *domaincfg.DomainConfig
	CanvasRepo       ports.CanvasRepository
	EventBus         ports.EventBus
	AIProviders      *ai.Providers
	Enricher         commands.Enricher
	ContextBuilder   *domainservices.ContextBuilder
	ContextEstimator *domainservices.ContextEstimator
	NodeCreator      *commands.CreateNodeHandler
	NodeMover        *commands.MoveNodeHandler
	NodeConnector    *commands.ConnectNodesHandler
	ChatPoster       *commands.PostChatMessageHandler
	CommandBus       *commandbus.CommandBus
	QueryBus         *querybus.QueryBus
	SessionManager   *appservices.SessionManager
	Hub              *ws.Hub
	Broadcaster      *ws.Broadcaster
	WSHandler        http.HandlerFunc
	NodeHandler      *handlers.NodeHandler
	EdgeHandler      *handlers.EdgeHandler
	CanvasHandler    *handlers.CanvasHandler
	ChatHandler      *handlers.ChatHandler
	Router           *rest.Router
}

// WireEventHandlers subscribes the websocket broadcaster to the domain event
// bus so every mutation fans out to connected clients
func WireEventHandlers(container *Container) error {
	if err := container.Broadcaster.Subscribe(container.EventBus); err != nil {
		container.Logger.Error("Failed to subscribe broadcaster", zap.Error(err))
		return err
	}
	return nil
}
