package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server is the health/readiness HTTP server. It stays plain net/http so it
// keeps answering even if the gin API stack is wedged.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new health server.
func NewServer(
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start starts the health server.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.Handle("/health", HealthHandler())
	mux.Handle("/ready", ReadinessHandler(ctx))

	handler := ChainMiddleware(
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger),
	)(mux)

	s.server.Handler = handler

	s.logger.Info("starting health server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the health server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down health server")
	return s.server.Shutdown(ctx)
}
