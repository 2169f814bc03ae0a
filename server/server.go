// Package server exposes a resolved model over a read-only HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/metrics"
)

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 5 * time.Second

// snapshot is the model served at one point in time together with its
// hierarchy graph, whose paths are seeded from every root.
type snapshot struct {
	version string
	model   *hierarchy.Model
	graph   *hierarchy.Graph
	loaded  time.Time
}

// Server serves one model. The model can be replaced while serving.
type Server struct {
	current atomic.Pointer[snapshot]
	router  *gin.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes m at /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a server for m. mode is the gin mode; empty keeps the current
// one.
func New(version string, m *hierarchy.Model, mode string, opts ...Option) (*Server, error) {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if err := s.SetModel(version, m); err != nil {
		return nil, err
	}
	if mode != "" {
		gin.SetMode(mode)
	}
	s.router = s.routes()
	return s, nil
}

// SetModel replaces the served model.
func (s *Server) SetModel(version string, m *hierarchy.Model) error {
	if m == nil {
		return errors.New("server: nil model")
	}
	g := m.Graph()
	if _, err := hierarchy.ComputeSpecificityPaths(g, hierarchy.RootPolicyAll); err != nil {
		return fmt.Errorf("compute specificity paths: %w", err)
	}
	s.current.Store(&snapshot{version: version, model: m, graph: g, loaded: time.Now().UTC()})
	s.logger.Info("Serving model", "version", version, "schemas", len(m.Schemas), "properties", len(m.Properties))
	return nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(recovery())

	r.GET("/healthz", s.health)
	r.GET("/schemas", s.listSchemas)
	r.GET("/schemas/:label", s.getSchema)
	r.GET("/schemas/:label/properties", s.getSchemaProperties)
	r.GET("/properties", s.listProperties)
	r.GET("/properties/:label", s.getProperty)
	r.GET("/paths/:label", s.getPaths)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "not found")
	})
	return r
}
