// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application
// service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendorlink/supplierflow/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config               ServerConfig
	httpServer           *http.Server
	router               *gin.Engine
	statusService        *service.StatusService
	supplierService      *service.SupplierService
	changeRequestService *service.ChangeRequestService
	logger               Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	statusService *service.StatusService,
	supplierService *service.SupplierService,
	changeRequestService *service.ChangeRequestService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:               config,
		router:               router,
		statusService:        statusService,
		supplierService:      supplierService,
		changeRequestService: changeRequestService,
		logger:               logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(actorMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.statusService, s.supplierService, s.changeRequestService, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		// RFQs
		api.POST("/rfqs", handlers.CreateRfq)
		api.POST("/rfqs/:id/status", handlers.TransitionRfq)
		api.GET("/rfqs/:id/history", handlers.RfqHistory)

		// Quotes
		api.POST("/quotes", handlers.CreateQuote)
		api.POST("/quotes/:id/status", handlers.TransitionQuote)
		api.GET("/quotes/:id/history", handlers.QuoteHistory)

		// Reconciliations
		api.POST("/reconciliations", handlers.CreateReconciliation)
		api.POST("/reconciliations/:id/status", handlers.TransitionReconciliation)
		api.GET("/reconciliations/:id/history", handlers.ReconciliationHistory)

		// Suppliers and upgrade workflow
		api.POST("/suppliers", handlers.RegisterSupplier)
		api.GET("/suppliers/:id", handlers.GetSupplier)
		api.POST("/suppliers/:id/upgrade", handlers.StartUpgrade)
		api.GET("/workflows/:id", handlers.GetWorkflow)
		api.POST("/workflows/:id/decisions", handlers.DecideWorkflow)

		// Change requests
		api.POST("/change-requests", handlers.CreateChangeRequest)
		api.POST("/change-requests/:id/decisions", handlers.DecideChangeRequest)
		api.GET("/change-requests/:id", handlers.GetChangeRequest)
		api.GET("/change-requests/pending", handlers.ListPendingChangeRequests)
		api.GET("/suppliers/:id/change-requests", handlers.ListSupplierChangeRequests)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
