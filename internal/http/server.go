// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	agentHTTP "github.com/asthalabs/shopperai/internal/agent/http"
	auditHTTP "github.com/asthalabs/shopperai/internal/audit/http"
)

// Server represents the main API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// RouterConfig carries the middleware settings applied when building the router.
type RouterConfig struct {
	CORSEnabled             bool
	CORSAllowOrigins        string
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
}

// NewServer creates a new HTTP server. The database handle is used only by
// the readiness probe; pass nil when running without persistence.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the route table and middleware chain.
//
// Every request gets a UUIDv7 request ID, which is propagated into the
// request context so decision records written further down carry it.
func (s *Server) SetupRouter(
	config RouterConfig,
	agentHandler *agentHTTP.AgentHandler,
	accessHandler *agentHTTP.AccessHandler,
	decisionRecordHandler *auditHTTP.DecisionRecordHandler,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(RequestIDContextMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(config.CORSEnabled, config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	agents := v1.Group("/agents")
	if config.RateLimitEnabled {
		agents.Use(agentHTTP.RateLimitMiddleware(
			config.RateLimitRequestsPerSec,
			config.RateLimitBurst,
			s.logger,
		))
	}
	agents.POST("/:agent_id/connect", agentHandler.ConnectHandler)

	v1.POST("/access/evaluate", accessHandler.EvaluateHandler)
	v1.GET("/decisions", decisionRecordHandler.ListHandler)

	s.router = router
}

// GetHandler returns the configured router, for tests that mount the server
// behind httptest.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The database
// is the only hard dependency; policy documents are loaded in-process.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	ready := true
	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
