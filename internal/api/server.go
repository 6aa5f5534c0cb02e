// Package api provides the HTTP server and handlers for Quick Note.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/takuyahirata23/quick-note/internal/auth"
	"github.com/takuyahirata23/quick-note/internal/http/response"
	"github.com/takuyahirata23/quick-note/internal/metrics"
	"github.com/takuyahirata23/quick-note/internal/ratelimit"
	"github.com/takuyahirata23/quick-note/internal/service"
	"github.com/takuyahirata23/quick-note/internal/store"
)

// Options tunes the HTTP layer.
type Options struct {
	Version            string
	CORSAllowedOrigins []string
	// AuthRateLimit is the number of register/login attempts allowed per
	// client IP per minute. Zero disables limiting.
	AuthRateLimit int
	// TrustProxy rewrites RemoteAddr from forwarding headers. Leave it off
	// unless a reverse proxy sets them.
	TrustProxy bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *service.Services
	sessions        *auth.SessionManager
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *service.Services, sessions *auth.SessionManager, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		store:    st,
		services: services,
		sessions: sessions,
		router:   chi.NewRouter(),
		logger:   logger,
	}
	if opts.AuthRateLimit > 0 {
		s.authRateLimiter = ratelimit.PerMinute(opts.AuthRateLimit)
	}

	s.setupMiddleware(opts)
	s.api = NewAPI(s.router, opts.Version)
	s.setupRoutes()

	return s
}

// NewAPI builds the huma API on router with the Quick Note envelope and
// error mapping.
func NewAPI(router chi.Router, version string) huma.API {
	humaConfig := huma.DefaultConfig("Quick Note API", version)
	humaConfig.Transformers = append([]huma.Transformer{EnvelopeTransformer}, humaConfig.Transformers...)
	humaConfig.Formats[formContentType] = formFormat
	humaConfig.Formats["form"] = formFormat

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()
	return api
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Shutdown releases background resources. The store is closed by its owner.
func (s *Server) Shutdown() error {
	if s.authRateLimiter != nil {
		s.authRateLimiter.Stop()
	}
	return nil
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	if opts.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware)

	if len(opts.CORSAllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Location"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if s.authRateLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.authRateLimiter, s.logger, "/register", "/login"))
	}

	s.router.Use(s.sessionMiddleware)

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed", s.logger)
	})
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", metrics.Handler())

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerDashboardRoutes()
	s.registerFolderRoutes()
	s.registerNoteRoutes()
}
