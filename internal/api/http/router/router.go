package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filedrive/filedrive-server/internal/api/http/handler"
	"github.com/filedrive/filedrive-server/internal/api/http/middleware"
	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
)

// Router wires handlers and middleware into the HTTP mux.
type Router struct {
	files          *handler.Files
	webhook        *handler.Webhook
	auth           *handler.Auth
	health         *handler.Health
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	files *handler.Files,
	webhook *handler.Webhook,
	auth *handler.Auth,
	health *handler.Health,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		files:          files,
		webhook:        webhook,
		auth:           auth,
		health:         health,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the route tree with logging, metrics and authentication
// middleware. The webhook and health endpoints stay outside the
// authenticated group.
func (r *Router) Register() http.Handler {
	mux := chi.NewRouter()

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)

	mux.Use(logging.Handler)
	mux.Use(middleware.Metrics)

	mux.Get("/healthz", r.health.Live)
	mux.Get("/readyz", r.health.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/webhooks/identity", r.webhook.HandleIdentityEvents)
	mux.Post("/auth/session", r.auth.HandleSessionExchange)

	mux.Route("/api", func(api chi.Router) {
		api.Use(authenticate.Handler)

		api.Post("/files/upload-url", r.files.IssueUploadTarget)
		api.Post("/files", r.files.Create)
		api.Get("/files", r.files.List)

		api.Route("/files/{fileID}", func(file chi.Router) {
			file.Delete("/", r.files.Delete)
			file.Get("/favorite", r.files.CheckFavorite)
			file.Post("/favorite", r.files.ToggleFavorite)
			file.Post("/trash", r.files.Trash)
			file.Post("/restore", r.files.Restore)
		})

		api.Post("/orgs/{orgID}/trash/clear", r.files.ClearTrash)
	})

	return mux
}
