// Package httpapi provides the REST surface for the advisory analyzers.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/diagnose"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
	"github.com/fyrsmithlabs/advisord/internal/permission"
	"github.com/fyrsmithlabs/advisord/internal/toolrec"
)

// Server provides HTTP endpoints for the analyzers.
type Server struct {
	echo          *echo.Echo
	permissionSvc *permission.Service
	toolrecSvc    *toolrec.Service
	diagnoseSvc   *diagnose.Service
	logger        *logging.Logger
	config        *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server.
func NewServer(
	permissionSvc *permission.Service,
	toolrecSvc *toolrec.Service,
	diagnoseSvc *diagnose.Service,
	logger *logging.Logger,
	cfg *Config,
) (*Server, error) {
	if permissionSvc == nil {
		return nil, fmt.Errorf("permission service is required")
	}
	if toolrecSvc == nil {
		return nil, fmt.Errorf("toolrec service is required")
	}
	if diagnoseSvc == nil {
		return nil, fmt.Errorf("diagnose service is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9091,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())

	s := &Server{
		echo:          e,
		permissionSvc: permissionSvc,
		toolrecSvc:    toolrecSvc,
		diagnoseSvc:   diagnoseSvc,
		logger:        logger,
		config:        cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/permissions", s.handlePermissions)
	v1.POST("/tools", s.handleTools)
	v1.POST("/errors", s.handleErrors)
}

// PermissionsRequest is the request body for POST /api/v1/permissions.
type PermissionsRequest struct {
	Provider             string   `json:"provider,omitempty"`
	Action               string   `json:"action,omitempty"`
	RequiredPermissions  []string `json:"required_permissions,omitempty"`
	AvailablePermissions []string `json:"available_permissions"`
}

// ToolsRequest is the request body for POST /api/v1/tools.
type ToolsRequest struct {
	TaskDescription string   `json:"task_description,omitempty"`
	Complexity      string   `json:"complexity,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
}

// ErrorsRequest is the request body for POST /api/v1/errors.
type ErrorsRequest struct {
	APICall          string `json:"api_call,omitempty"`
	ErrorMessage     string `json:"error_message"`
	ObservedBehavior string `json:"observed_behavior,omitempty"`
	Status           int    `json:"status,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handlePermissions runs permission gap analysis.
func (s *Server) handlePermissions(c echo.Context) error {
	var req PermissionsRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid permissions request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.permissionSvc.Analyze(c.Request().Context(), &permission.Query{
		Provider:        req.Provider,
		Action:          req.Action,
		RequiredScopes:  req.RequiredPermissions,
		AvailableScopes: req.AvailablePermissions,
	})
	if err != nil {
		return s.mapError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// handleTools runs tool recommendation.
func (s *Server) handleTools(c echo.Context) error {
	var req ToolsRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid tools request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.toolrecSvc.Recommend(c.Request().Context(), &toolrec.Query{
		TaskDescription: req.TaskDescription,
		Complexity:      knowledge.Complexity(req.Complexity),
		Requirements:    req.Requirements,
	})
	if err != nil {
		return s.mapError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// handleErrors runs error diagnosis.
func (s *Server) handleErrors(c echo.Context) error {
	var req ErrorsRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid errors request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.diagnoseSvc.Diagnose(c.Request().Context(), &diagnose.Query{
		APICall:          req.APICall,
		ErrorMessage:     req.ErrorMessage,
		ObservedBehavior: req.ObservedBehavior,
		Status:           req.Status,
	})
	if err != nil {
		return s.mapError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// mapError converts service errors to HTTP errors. Validation failures
// are client errors; everything else is a 500.
func (s *Server) mapError(err error) error {
	if advisory.IsValidationError(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
