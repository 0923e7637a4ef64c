// Package server exposes the layout pipeline and workspace storage over HTTP.
//
// Routes:
//
//	GET    /healthz                          liveness probe
//	POST   /v1/layout                        block tree or state -> layout JSON
//	POST   /v1/render?format=svg             block tree or state -> artifact
//	GET    /v1/workspaces                    list stored workspace names
//	GET    /v1/workspaces/{name}             stored state document
//	PUT    /v1/workspaces/{name}             validate and store a state document
//	DELETE /v1/workspaces/{name}             remove a stored workspace
//	GET    /v1/workspaces/{name}/render      render a stored workspace
//
// Request bodies are JSON unless the Content-Type names YAML. Pipeline
// options come from the query string: renderer, theme, format (repeatable
// or comma-separated), connections, detailed, padding and scale.
//
// Every request gets a fresh serialization registry. Requests touching the
// same stored workspace are serialised by a per-name lock.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blockrender/pkg/observability"
	"github.com/matzehuels/blockrender/pkg/pipeline"
	"github.com/matzehuels/blockrender/pkg/serialization"
	"github.com/matzehuels/blockrender/pkg/storage"
)

// Defaults for [Config].
const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultMaxBodyBytes   = 1 << 20
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr   string
	Store  storage.Store
	Runner *pipeline.Runner
	Logger *log.Logger

	// Registry builds the registry used for one request. Defaults to
	// serialization.NewDefaultRegistry.
	Registry func() *serialization.Registry

	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// Server is the HTTP front end. Create it with [New].
type Server struct {
	cfg    Config
	locks  *nameLocks
	router chi.Router
}

// New builds a server from cfg. Store is required; the other fields have
// defaults.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: no workspace store")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Registry == nil {
		cfg.Registry = func() *serialization.Registry {
			return serialization.NewDefaultRegistry(serialization.WithLogger(cfg.Logger))
		}
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	s := &Server{cfg: cfg, locks: newNameLocks()}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Route("/workspaces", func(r chi.Router) {
			r.Get("/", s.handleListWorkspaces)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetWorkspace)
				r.Put("/", s.handlePutWorkspace)
				r.Delete("/", s.handleDeleteWorkspace)
				r.Get("/render", s.handleRenderWorkspace)
			})
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		d := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.cfg.Logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d)
	})
}
