// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	auditHTTP "github.com/keyfold/keyfold/internal/audit/http"
	auditService "github.com/keyfold/keyfold/internal/audit/service"
	auditUseCase "github.com/keyfold/keyfold/internal/audit/usecase"
	"github.com/keyfold/keyfold/internal/config"
	credentialHTTP "github.com/keyfold/keyfold/internal/credential/http"
	credentialUseCase "github.com/keyfold/keyfold/internal/credential/usecase"
	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
	cryptoService "github.com/keyfold/keyfold/internal/crypto/service"
	"github.com/keyfold/keyfold/internal/database"
	internalHTTP "github.com/keyfold/keyfold/internal/http"
	identityUseCase "github.com/keyfold/keyfold/internal/identity/usecase"
	"github.com/keyfold/keyfold/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Crypto
	keyLoader  cryptoService.KeyLoader
	masterKey  *cryptoDomain.MasterKey
	fieldCodec cryptoService.FieldCodec

	// Audit
	auditSigner       auditService.Signer
	auditEventRepo    auditUseCase.AuditEventRepository
	auditUseCase      auditUseCase.AuditUseCase
	auditEventHandler *auditHTTP.AuditEventHandler

	// Identity
	identityRepo    identityUseCase.IdentityRepository
	identityUseCase identityUseCase.IdentityUseCase

	// Credentials
	credentialRepo    credentialUseCase.CredentialRepository
	grantRepo         credentialUseCase.GrantRepository
	credentialUseCase credentialUseCase.CredentialUseCase
	credentialHandler *credentialHTTP.CredentialHandler

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers
	healthServer  *internalHTTP.Server
	apiServer     *internalHTTP.APIServer
	metricsServer *internalHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	keyLoaderInit         sync.Once
	masterKeyInit         sync.Once
	fieldCodecInit        sync.Once
	auditSignerInit       sync.Once
	auditEventRepoInit    sync.Once
	auditUseCaseInit      sync.Once
	auditEventHandlerInit sync.Once
	identityRepoInit      sync.Once
	identityUseCaseInit   sync.Once
	credentialRepoInit    sync.Once
	grantRepoInit         sync.Once
	credentialUseCaseInit sync.Once
	credentialHandlerInit sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	healthServerInit      sync.Once
	apiServerInit         sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HealthServer returns the standalone health/readiness server.
func (c *Container) HealthServer() *internalHTTP.Server {
	c.healthServerInit.Do(func() {
		c.healthServer = internalHTTP.NewServer(c.config.ServerHost, c.config.HealthPort, c.Logger())
	})
	return c.healthServer
}

// APIServer returns the gin API server with all routes registered.
func (c *Container) APIServer() (*internalHTTP.APIServer, error) {
	c.apiServerInit.Do(func() {
		server, err := c.initAPIServer()
		if err != nil {
			c.initErrors["apiServer"] = err
			return
		}
		c.apiServer = server
	})
	if storedErr, exists := c.initErrors["apiServer"]; exists {
		return nil, storedErr
	}
	return c.apiServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*internalHTTP.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = internalHTTP.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Flush metrics before the connection goes away
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Scrub key material
	if c.masterKey != nil {
		c.masterKey.Close()
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initAPIServer creates the API server with all its dependencies.
func (c *Container) initAPIServer() (*internalHTTP.APIServer, error) {
	identityUC, err := c.IdentityUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity use case for api server: %w", err)
	}

	credentialHandler, err := c.CredentialHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential handler for api server: %w", err)
	}

	auditEventHandler, err := c.AuditEventHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit event handler for api server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for api server: %w", err)
	}

	if provider != nil {
		return internalHTTP.NewAPIServer(
			c.config,
			c.Logger(),
			identityUC,
			credentialHandler,
			auditEventHandler,
			provider.MeterProvider(),
		), nil
	}

	return internalHTTP.NewAPIServer(
		c.config,
		c.Logger(),
		identityUC,
		credentialHandler,
		auditEventHandler,
		nil,
	), nil
}
