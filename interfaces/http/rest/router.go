package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"relatree/application/queries"
	"relatree/application/services"
	"relatree/infrastructure/config"
	"relatree/interfaces/http/rest/handlers"
	"relatree/interfaces/http/rest/middleware"
	ws "relatree/interfaces/websocket"
	"relatree/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg         *config.Config
	editor      *services.EditorService
	transfer    *services.TransferService
	annotations *services.AnnotationService
	browse      *queries.BrowseService
	validator   *auth.JWTValidator
	wsServer    *ws.Server
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	editor *services.EditorService,
	transfer *services.TransferService,
	annotations *services.AnnotationService,
	browse *queries.BrowseService,
	validator *auth.JWTValidator,
	wsServer *ws.Server,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:         cfg,
		editor:      editor,
		transfer:    transfer,
		annotations: annotations,
		browse:      browse,
		validator:   validator,
		wsServer:    wsServer,
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "https://*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// WebSocket endpoint authenticates via query token on upgrade
	router.Get("/ws", rt.wsServer.HandleConnection)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		treeHandler := handlers.NewTreeHandler(rt.editor, rt.browse, rt.logger)
		nodeHandler := handlers.NewNodeHandler(rt.editor, rt.logger)
		connectionHandler := handlers.NewConnectionHandler(rt.editor, rt.logger)
		transferHandler := handlers.NewTransferHandler(rt.transfer, rt.logger)
		annotationHandler := handlers.NewAnnotationHandler(rt.annotations, rt.logger)

		// Tree endpoints
		r.Route("/trees", func(r chi.Router) {
			r.Post("/", treeHandler.CreateTree)
			r.Get("/", treeHandler.ListTrees)

			r.Route("/{treeID}", func(r chi.Router) {
				r.Get("/", treeHandler.GetTree)
				r.Patch("/", treeHandler.RenameTree)
				r.Delete("/", treeHandler.DeleteTree)

				// Privileged operations
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePrivileged())
					r.Post("/broadcast", treeHandler.BroadcastTree)
					r.Get("/export", transferHandler.ExportTree)
				})

				// Node endpoints
				r.Route("/nodes", func(r chi.Router) {
					r.Post("/", nodeHandler.AddNode)
					r.Put("/{nodeID}", nodeHandler.UpdateNode)
					r.Delete("/{nodeID}", nodeHandler.RemoveNode)
					r.Put("/{nodeID}/position", nodeHandler.MoveNode)
					r.Post("/{nodeID}/resize", nodeHandler.ResizeNode)
				})

				// Connection endpoints
				r.Route("/connections", func(r chi.Router) {
					r.Post("/", connectionHandler.CreateConnection)
					r.Put("/", connectionHandler.RetypeConnection)
					r.Delete("/", connectionHandler.DeleteConnection)
				})
			})
		})

		// Category endpoints
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", treeHandler.ListCategories)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePrivileged())
				r.Get("/{category}/export", transferHandler.ExportCategory)
				r.Post("/{category}/import", transferHandler.Import)
			})
		})

		// Connection type catalog
		r.Get("/connection-types", treeHandler.ListConnectionTypes)

		// Map pin endpoints
		r.Route("/pins", func(r chi.Router) {
			r.Get("/", annotationHandler.ListPins)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePrivileged())
				r.Post("/", annotationHandler.CreatePin)
			})
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
