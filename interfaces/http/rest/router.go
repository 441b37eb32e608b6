package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"canvas-backend/infrastructure/config"
	"canvas-backend/interfaces/http/rest/handlers"
	"canvas-backend/interfaces/http/rest/middleware"
	"canvas-backend/pkg/ratelimit"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg           *config.Config
	nodeHandler   *handlers.NodeHandler
	edgeHandler   *handlers.EdgeHandler
	canvasHandler *handlers.CanvasHandler
	chatHandler   *handlers.ChatHandler
	wsHandler     http.HandlerFunc
	logger        *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	nodeHandler *handlers.NodeHandler,
	edgeHandler *handlers.EdgeHandler,
	canvasHandler *handlers.CanvasHandler,
	chatHandler *handlers.ChatHandler,
	wsHandler http.HandlerFunc,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:           cfg,
		nodeHandler:   nodeHandler,
		edgeHandler:   edgeHandler,
		canvasHandler: canvasHandler,
		chatHandler:   chatHandler,
		wsHandler:     wsHandler,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.PropagateRequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Interaction gateway
	router.Get("/ws", rt.wsHandler)

	// API routes
	router.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.RateLimitPerMinute > 0 {
			r.Use(middleware.RateLimit(ratelimit.PerMinute(rt.cfg.RateLimitPerMinute), rt.logger))
		}

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", rt.nodeHandler.CreateNode)
			r.Get("/{nodeID}", rt.nodeHandler.GetNode)
			r.Put("/{nodeID}", rt.nodeHandler.UpdateNode)
			r.Delete("/{nodeID}", rt.nodeHandler.DeleteNode)
			r.Put("/{nodeID}/position", rt.nodeHandler.MoveNode)
			r.Put("/{nodeID}/size", rt.nodeHandler.ResizeNode)
			r.Post("/{nodeID}/recordings", rt.nodeHandler.AddRecording)
			r.Post("/{nodeID}/files", rt.nodeHandler.AddDocumentFile)
			r.Post("/{nodeID}/images", rt.nodeHandler.AddImage)
			r.Post("/{nodeID}/pages", rt.nodeHandler.AddWebsitePage)
			r.Post("/{nodeID}/messages", rt.chatHandler.PostMessage)
		})

		r.Route("/edges", func(r chi.Router) {
			r.Post("/", rt.edgeHandler.CreateEdge)
			r.Delete("/{edgeID}", rt.edgeHandler.DeleteEdge)
		})

		r.Route("/canvas", func(r chi.Router) {
			r.Get("/", rt.canvasHandler.GetCanvas)
			r.Get("/context-usage", rt.canvasHandler.GetContextUsage)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
