// Package mcp exposes the analyzers as MCP tools over the stdio
// transport using the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp).
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/advisord/internal/diagnose"
	"github.com/fyrsmithlabs/advisord/internal/logging"
	"github.com/fyrsmithlabs/advisord/internal/permission"
	"github.com/fyrsmithlabs/advisord/internal/toolrec"
)

// Server wires the three analyzer services into an MCP server.
type Server struct {
	mcp           *mcp.Server
	permissionSvc *permission.Service
	toolrecSvc    *toolrec.Service
	diagnoseSvc   *diagnose.Service
	metrics       *Metrics
	logger        *logging.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "advisord")
	Name string

	// Version is the server version (default: "0.1.0")
	Version string

	// Logger for structured logging
	Logger *logging.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "advisord",
		Version: "0.1.0",
	}
}

// NewServer creates a new MCP server with the given services.
func NewServer(
	cfg *Config,
	permissionSvc *permission.Service,
	toolrecSvc *toolrec.Service,
	diagnoseSvc *diagnose.Service,
) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.FromContext(context.Background())
	}
	if permissionSvc == nil {
		return nil, fmt.Errorf("permission service is required")
	}
	if toolrecSvc == nil {
		return nil, fmt.Errorf("toolrec service is required")
	}
	if diagnoseSvc == nil {
		return nil, fmt.Errorf("diagnose service is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:           mcpServer,
		permissionSvc: permissionSvc,
		toolrecSvc:    toolrecSvc,
		diagnoseSvc:   diagnoseSvc,
		metrics:       NewMetrics(cfg.Logger),
		logger:        cfg.Logger,
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
