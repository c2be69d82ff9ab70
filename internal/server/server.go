// Package server assembles the HTTP surface: middleware chain, health and
// version endpoints, the browsing API, and optional static frontend serving.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/SPJDevOps/PocketS3/internal/errors"
	"github.com/SPJDevOps/PocketS3/internal/observability"
	"github.com/SPJDevOps/PocketS3/internal/server/handlers"
	"github.com/SPJDevOps/PocketS3/internal/server/middleware"
)

// Server is the HTTP server.
type Server struct {
	host       string
	port       int
	router     chi.Router
	httpServer *http.Server

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

// New creates a server with the standard middleware chain and the health and
// version endpoints registered.
func New(host string, port int) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(observability.CLILogger))
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteError(w, http.StatusNotFound, apperrors.HTTPErrorDetail{
			Code:      "NOT_FOUND",
			Message:   "resource not found",
			RequestID: middleware.GetRequestID(r.Context()),
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteError(w, http.StatusMethodNotAllowed, apperrors.HTTPErrorDetail{
			Code:      "METHOD_NOT_ALLOWED",
			Message:   "method not allowed",
			RequestID: middleware.GetRequestID(r.Context()),
		})
	})

	r.Get("/health", handlers.HealthHandler)
	r.Get("/health/live", handlers.LivenessHandler)
	r.Get("/health/ready", handlers.ReadinessHandler)
	r.Get("/health/startup", handlers.StartupHandler)
	r.Get("/version", handlers.VersionHandler)

	return &Server{
		host:         host,
		port:         port,
		router:       r,
		readTimeout:  30 * time.Second,
		writeTimeout: 30 * time.Second,
		idleTimeout:  120 * time.Second,
	}
}

// SetTimeouts overrides the HTTP server timeouts. Must be called before Start.
func (s *Server) SetTimeouts(read, write, idle time.Duration) {
	s.readTimeout = read
	s.writeTimeout = write
	s.idleTimeout = idle
}

// MountAPI registers the browsing API under /api.
func (s *Server) MountAPI(api chi.Router) {
	s.router.Mount("/api", api)
}

// ServeStatic serves a built frontend from dir with single-page-app
// fallback: unknown paths get index.html so client routing works.
func (s *Server) ServeStatic(dir string) {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	s.router.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		requested := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Start runs the server until it fails or Shutdown is called.
// A closed-server error is reported as nil.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
