package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/http/handlers"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/middleware"
	"github.com/hongminglow/blog-be/internal/observability"
	"github.com/hongminglow/blog-be/internal/service"
	"github.com/hongminglow/blog-be/internal/storage"
)

var errRouteNotFound = apperror.NotFound("route not found")

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, logger *slog.Logger, metrics *observability.Metrics) *Server {
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, logger, metrics),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}}
}

// NewHandler builds the full route tree.
func NewHandler(cfg config.Config, store storage.Store, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, auth.TokenTTL)
	hasher := auth.NewBcryptHasher()
	login := auth.NewLoginFlow(store, hasher, tokens)
	guard := auth.NewGuard(store, tokens)

	users := handlers.NewUserHandler(service.NewUserService(store, hasher))
	posts := handlers.NewPostHandler(service.NewPostService(store))
	comments := handlers.NewCommentHandler(service.NewCommentService(store))

	root := mux.NewRouter()
	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.FromError(w, r, errRouteNotFound)
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	root.Use(middleware.Logging(logger), middleware.Metrics(metrics))

	handlers.NewHealthHandler(time.Now(), store).Register(root)
	root.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	handlers.NewAuthHandler(login, metrics).Register(root)
	users.RegisterPublic(root)

	protected := root.NewRoute().Subrouter()
	protected.Use(middleware.Session(guard, metrics))
	users.RegisterProtected(protected)
	posts.Register(protected)
	comments.Register(protected)

	return middleware.RequestID(middleware.CORS(cfg.CORSOrigins)(root))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
