// Package preview serves a built site over HTTP together with its build
// report and metrics.
package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/labsite/internal/logfields"
	"git.home.luguber.info/inful/labsite/internal/site"
)

// Server serves the HTML root and the site libraries next to it.
type Server struct {
	Addr     string
	htmlRoot string
	siteLibs string
	report   *site.Report
	metrics  http.Handler
	router   *chi.Mux
	server   *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithSiteLibs serves dir under /site-libs/.
func WithSiteLibs(dir string) Option {
	return func(s *Server) { s.siteLibs = dir }
}

// WithReport exposes the report of the build being served at /report.
func WithReport(r *site.Report) Option {
	return func(s *Server) { s.report = r }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewServer creates a server for the site rendered into htmlRoot.
func NewServer(addr, htmlRoot string, opts ...Option) *Server {
	s := &Server{
		Addr:     addr,
		htmlRoot: htmlRoot,
		router:   chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	if s.report != nil {
		s.router.Get("/report", s.handleReport)
	}
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}
	if s.siteLibs != "" {
		s.router.Handle("/site-libs/*", http.StripPrefix("/site-libs/", http.FileServer(http.Dir(s.siteLibs))))
	}
	s.router.Handle("/*", http.FileServer(http.Dir(s.htmlRoot)))
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("Preview server listening", logfields.Addr(s.Addr), logfields.Path(s.htmlRoot))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(s.report.Serializable())
}
