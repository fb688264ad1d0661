// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	agentHTTP "github.com/asthalabs/shopperai/internal/agent/http"
	agentService "github.com/asthalabs/shopperai/internal/agent/service"
	auditHTTP "github.com/asthalabs/shopperai/internal/audit/http"
	auditService "github.com/asthalabs/shopperai/internal/audit/service"
	auditUseCase "github.com/asthalabs/shopperai/internal/audit/usecase"
	"github.com/asthalabs/shopperai/internal/config"
	"github.com/asthalabs/shopperai/internal/database"
	"github.com/asthalabs/shopperai/internal/http"
	iamService "github.com/asthalabs/shopperai/internal/iam/service"
	iamUseCase "github.com/asthalabs/shopperai/internal/iam/usecase"
	"github.com/asthalabs/shopperai/internal/kms"
	"github.com/asthalabs/shopperai/internal/metrics"
	paymentService "github.com/asthalabs/shopperai/internal/payment/service"
	paymentUseCase "github.com/asthalabs/shopperai/internal/payment/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	kmsService      kms.Service
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Access control
	policyRepo    iamUseCase.PolicyRepository
	evaluator     iamService.Evaluator
	accessUseCase iamUseCase.AccessUseCase

	// Decision audit trail
	decisionRecordRepo auditUseCase.DecisionRecordRepository
	recordSigner       auditService.RecordSigner
	signingKey         []byte
	decisionLogUseCase auditUseCase.DecisionLogUseCase

	// Payment agent
	paypalClient   paymentService.PayPalClient
	paymentUseCase paymentUseCase.PaymentUseCase
	paymentChannel *agentService.Channel

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	txManagerInit          sync.Once
	kmsServiceInit         sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	policyRepoInit         sync.Once
	evaluatorInit          sync.Once
	accessUseCaseInit      sync.Once
	decisionRecordRepoInit sync.Once
	recordSignerInit       sync.Once
	signingKeyInit         sync.Once
	decisionLogInit        sync.Once
	paypalClientInit       sync.Once
	paymentUseCaseInit     sync.Once
	paymentChannelInit     sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
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
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
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
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// KMSService returns the KMS service used to unwrap the decision-record
// signing key.
func (c *Container) KMSService() kms.Service {
	c.kmsServiceInit.Do(func() {
		c.kmsService = kms.NewService()
	})
	return c.kmsService
}

// MetricsProvider returns the Prometheus metrics provider, or nil when
// metrics are disabled.
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
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled so decorated use cases need no nil
// checks.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to get metrics provider: %w", err)
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
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with all routes and middleware wired.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider: %w", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

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

// initHTTPServer creates the API server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	accessUseCase, err := c.AccessUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access use case for http server: %w", err)
	}

	decisionLogUseCase, err := c.DecisionLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get decision log use case for http server: %w", err)
	}

	paymentChannel, err := c.PaymentChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment channel for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(
		http.RouterConfig{
			CORSEnabled:             c.config.CORSEnabled,
			CORSAllowOrigins:        c.config.CORSAllowOrigins,
			RateLimitEnabled:        c.config.RateLimitEnabled,
			RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
			RateLimitBurst:          c.config.RateLimitBurst,
		},
		agentHTTP.NewAgentHandler([]*agentService.Channel{paymentChannel}, logger),
		agentHTTP.NewAccessHandler(accessUseCase, logger),
		auditHTTP.NewDecisionRecordHandler(decisionLogUseCase, logger),
	)

	return server, nil
}
