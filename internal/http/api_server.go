package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	auditHTTP "github.com/keyfold/keyfold/internal/audit/http"
	"github.com/keyfold/keyfold/internal/config"
	credentialHTTP "github.com/keyfold/keyfold/internal/credential/http"
	identityHTTP "github.com/keyfold/keyfold/internal/identity/http"
	identityUseCase "github.com/keyfold/keyfold/internal/identity/usecase"
	"github.com/keyfold/keyfold/internal/metrics"
)

// APIServer is the gin HTTP server exposing the credential API.
//
// Middleware order matters: request ID first, so every response and log line
// carries one; then the requester resolution, so rate limiting and handlers
// see an authenticated identity.
type APIServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewAPIServer creates the API server and registers all routes.
func NewAPIServer(
	cfg *config.Config,
	logger *slog.Logger,
	identityUC identityUseCase.IdentityUseCase,
	credentialHandler *credentialHTTP.CredentialHandler,
	auditEventHandler *auditHTTP.AuditEventHandler,
	meterProvider otelmetric.MeterProvider,
) *APIServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(RequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	v1 := router.Group("/v1")
	v1.Use(identityHTTP.RequesterMiddleware(identityUC, logger))

	if cfg.RateLimitEnabled {
		v1.Use(identityHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			logger,
		))
	}

	credentials := v1.Group("/credentials")
	credentials.POST("", credentialHandler.CreateHandler)
	credentials.GET("", credentialHandler.ListHandler)
	credentials.GET("/:id", credentialHandler.GetHandler)
	credentials.PATCH("/:id", credentialHandler.UpdateHandler)
	credentials.DELETE("/:id", credentialHandler.DeleteHandler)
	credentials.POST("/:id/shares", credentialHandler.ShareHandler)
	credentials.DELETE("/:id/shares", credentialHandler.RevokeHandler)

	v1.GET("/audit-events", auditEventHandler.ListHandler)

	return &APIServer{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *APIServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server.
func (s *APIServer) Start(ctx context.Context) error {
	s.logger.Info("starting api server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start api server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down api server")
	return s.server.Shutdown(ctx)
}
