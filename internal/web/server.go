// Package web provides the HTTP API and static frontend for VoFo Music.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/justestif/vofo-music/internal/library"
	"github.com/justestif/vofo-music/internal/ytmusic"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = "0.0.0.0:8000"

	// DefaultRegion is the chart region used when a request does not name one.
	DefaultRegion = "IN"
)

// Library is the account and likes backend used by the API handlers.
type Library interface {
	Register(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) (*library.Identity, error)
	ToggleLike(ctx context.Context, like library.Like) (library.LikeState, error)
	ListLikes(ctx context.Context, accountID int64) ([]library.Like, error)
	Check(ctx context.Context) error
}

// Catalog is the music catalog used for trending and search.
type Catalog interface {
	Trending(ctx context.Context, region string) ([]ytmusic.Track, error)
	Search(ctx context.Context, query string) ([]ytmusic.Track, error)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr     string
	Library  Library
	Catalog  Catalog // nil when the catalog is unavailable
	Region   string
	StaticFS fs.FS // must contain index.html to serve the frontend
	Logger   *log.Logger
}

// Server is the HTTP server for the API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	logger   *log.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Library == nil {
		return nil, errors.New("library is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	handlers := NewHandlers(cfg.Library, cfg.Catalog, cfg.Region, cfg.StaticFS, cfg.Logger)

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: handlers,
		logger:   cfg.Logger,
	}

	// Configure middleware
	s.setupMiddleware()

	// Configure routes
	s.setupRoutes()

	// Create HTTP server
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(*http.Request, string) bool { return true },
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	// Frontend
	s.router.Get("/", s.handlers.Home)
	s.router.Head("/", s.handlers.Home)

	// Diagnostics
	s.router.Get("/health", s.handlers.Health)
	s.router.Get("/ping", s.handlers.Ping)

	s.router.Route("/api", func(r chi.Router) {
		// Accounts
		r.Post("/register", s.handlers.Register)
		r.Post("/login", s.handlers.Login)

		// Likes
		r.Post("/like", s.handlers.ToggleLike)
		r.Get("/liked/{userID}", s.handlers.Liked)

		// Catalog
		r.Get("/trending", s.handlers.Trending)
		r.Get("/search", s.handlers.Search)
	})
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
