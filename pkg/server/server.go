// Package server exposes the depiction pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz             liveness and build info
//	GET  /v1/render           render one format and stream it back
//	POST /v1/render           render, store under an id, return its summary
//	GET  /v1/renders/{id}     fetch a stored render
//	GET  /v1/info             molecule summary as JSON
//	GET  /metrics             Prometheus metrics, when a handler is given
//
// Errors are JSON objects {"error": {"code", "message"}} with a status code
// derived from the error code.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/smilesdraw/pkg/config"
	"github.com/matzehuels/smilesdraw/pkg/layout"
	"github.com/matzehuels/smilesdraw/pkg/pipeline"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Options configures a Server. Zero fields take the defaults of
// config.Default().
type Options struct {
	Config config.Server
	Render config.Render
	Layout *layout.Options

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	Logger *log.Logger
}

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	cfg     config.Server
	render  config.Render
	layout  layout.Options
	metrics http.Handler
	logger  *log.Logger
	router  chi.Router
}

// New creates a server for runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	def := config.Default()
	if opts.Config.Addr == "" {
		opts.Config.Addr = def.Server.Addr
	}
	if opts.Config.ReadTimeout <= 0 {
		opts.Config.ReadTimeout = def.Server.ReadTimeout
	}
	if opts.Config.WriteTimeout <= 0 {
		opts.Config.WriteTimeout = def.Server.WriteTimeout
	}
	if opts.Config.RequestTimeout <= 0 {
		opts.Config.RequestTimeout = def.Server.RequestTimeout
	}
	if opts.Config.ShutdownTimeout <= 0 {
		opts.Config.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if opts.Render.Theme == "" {
		opts.Render.Theme = def.Render.Theme
	}
	if opts.Render.Scale <= 0 {
		opts.Render.Scale = def.Render.Scale
	}
	if opts.Layout == nil {
		opts.Layout = &def.Layout
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		runner:  runner,
		cfg:     opts.Config,
		render:  opts.Render,
		layout:  *opts.Layout,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Get("/render", s.handleRenderGet)
		r.Post("/render", s.handleRenderPost)
		r.Get("/renders/{id}", s.handleStoredRender)
		r.Get("/info", s.handleInfo)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r))
	})
	return r
}
