package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sundayezeilo/shortlink/internal/config"
	"github.com/sundayezeilo/shortlink/internal/httpx"
	"github.com/sundayezeilo/shortlink/internal/metrics"
	"github.com/sundayezeilo/shortlink/internal/shortener"
)

// Server represents the HTTP server with all dependencies.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	handler  *shortener.Handler
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	mu     sync.Mutex
	server *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics instruments requests with m and exposes g on the metrics path.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger, handler *shortener.Handler, opts ...Option) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger,
		handler: handler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	// Listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting http server",
			"addr", srv.Addr,
			"env", s.config.App.Environment,
		)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.shutdownWithTimeout()

	case <-ctx.Done():
		s.logger.Info("context cancelled, stopping server")
		return s.shutdownWithTimeout()
	}
}

func (s *Server) shutdownWithTimeout() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(
		httpx.Recovery(s.logger), // Outermost: catch panics
		httpx.RequestID,
		httpx.Logger(s.logger),
		httpx.Metrics(s.metrics),
	)

	r.Get("/x/health", s.healthCheckHandler)

	obs := s.config.Observability
	if obs.MetricsEnabled && s.gatherer != nil {
		r.Method(http.MethodGet, obs.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.handler.Register(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteNotFound(w)
	})

	return r
}

// healthCheckHandler handles health check requests.
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.Observability.ServiceName,
		"version": s.config.Observability.ServiceVersion,
	})
}

// Shutdown gracefully shuts down the server, closing it outright when ctx
// expires first. It is a no-op before Start and safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	s.logger.Info("shutting down server")

	if err := srv.Shutdown(ctx); err != nil {
		if closeErr := srv.Close(); closeErr != nil {
			return fmt.Errorf("failed to close server: %w", closeErr)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("shutdown timeout exceeded, forced close")
			return nil
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
