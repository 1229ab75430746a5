package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
	"github.com/ivannnito/AstroViewingConditions/internal/config"
	"github.com/ivannnito/AstroViewingConditions/internal/websocket"
	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

// Router wires the API handlers to routes
type Router struct {
	handler  *Handler
	wsServer *websocket.Server
	config   *config.Config
	logger   *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(manager *conditions.Manager, wsServer *websocket.Server, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler:  NewHandler(manager, cfg, log),
		wsServer: wsServer,
		config:   cfg,
		logger:   log.Named("api-router"),
	}
}

// Routes returns the HTTP handler for all API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(r.corsMiddleware)

	router.Route("/api", func(api chi.Router) {
		api.Get("/health", r.handler.GetHealth)
		api.Get("/conditions", r.handler.GetConditions)
		api.Get("/conditions/day", r.handler.GetDayConditions)
		api.Get("/cache", r.handler.GetCacheStats)
	})

	router.Get("/ws", r.wsServer.HandleConnection)

	return router
}

// corsMiddleware applies the configured CORS policy
func (r *Router) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		if origin != "" {
			for _, allowed := range r.config.Server.CORSAllowedOrigins {
				if allowed == "*" || allowed == origin {
					w.Header().Set("Access-Control-Allow-Origin", allowed)
					w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
					break
				}
			}
		}

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
