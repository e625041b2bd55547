// Package api provides the HTTP server and handlers for Spottem.
//
// The OAuth dance and the current-track endpoints are plain chi handlers
// (they redirect and answer 204, which doesn't fit a typed operation);
// the JSON CRUD surface is registered through huma.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/spottem/spottem-server/internal/http/response"
	"github.com/spottem/spottem-server/internal/service"
	"github.com/spottem/spottem-server/internal/store"

	"log/slog"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth      *service.AuthService
	Tracks    *service.TrackService
	Users     *service.UserService
	Social    *service.SocialService
	Reactions *service.ReactionService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	services    *Services
	router      *chi.Mux
	api         huma.API
	frontendURL string
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, frontendURL string, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:       store,
		services:    services,
		router:      router,
		frontendURL: frontendURL,
		logger:      logger,
	}

	// Middleware must be attached before any routes; humachi.New registers
	// huma's docs/OpenAPI routes on the mux, so the API is created after.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Spottem API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// OAuth dance and current track: raw handlers.
	s.router.Get("/login", s.handleLogin)
	s.router.Get("/callback", s.handleCallback)
	s.router.Post("/logout", s.handleLogout)
	s.router.Get("/current-track/{email}", s.handleGetCurrentTrack)
	s.router.Post("/current-track/{email}", s.handlePushCurrentTrack)

	// Typed JSON surface.
	s.registerUserRoutes()
	s.registerFriendRoutes()
	s.registerSongRoutes()
	s.registerReactionRoutes()
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
