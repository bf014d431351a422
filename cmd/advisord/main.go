// Advisord is a rule-based advisory daemon for agent tooling.
//
// It answers three questions from a curated knowledge base: which
// permission scopes an API call is missing, which tool fits a task,
// and what a failed API call most likely means.
//
// The daemon exposes the analyzers over the MCP stdio transport and,
// optionally, over an HTTP API.
//
// Usage:
//
//	# Start with defaults (MCP on stdio)
//	advisord
//
//	# Start with a config file and the HTTP API
//	advisord -config ~/.config/advisord/config.yaml
//
//	# Show version information
//	advisord version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/config"
	"github.com/fyrsmithlabs/advisord/internal/diagnose"
	"github.com/fyrsmithlabs/advisord/internal/httpapi"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
	"github.com/fyrsmithlabs/advisord/internal/mcp"
	"github.com/fyrsmithlabs/advisord/internal/permission"
	"github.com/fyrsmithlabs/advisord/internal/telemetry"
	"github.com/fyrsmithlabs/advisord/internal/toolrec"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  advisord           Start the advisory daemon\n")
			fmt.Fprintf(os.Stderr, "  advisord version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("advisord by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires the daemon and blocks until the context is cancelled.
//
//  1. Loads and validates configuration
//  2. Initializes logger and telemetry
//  3. Loads the knowledge base
//  4. Builds the formatter and the three analyzer services
//  5. Starts the HTTP API and/or the MCP stdio server
//  6. Performs graceful shutdown on context cancellation
func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// With nothing configured, serve MCP on stdio.
	if !cfg.Server.Enabled && !cfg.MCP.Enabled {
		cfg.MCP.Enabled = true
	}

	tel, err := telemetry.New(ctx, telemetry.NewConfigFromEnv())
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = tel.Shutdown(shutdownCtx)
	}()

	logCfg := logging.NewDefaultConfig()
	logCfg.Format = cfg.Logging.Format
	logCfg.Level, err = logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if cfg.MCP.Enabled {
		// Stdout carries the MCP protocol; logs go to stderr.
		logCfg.Output.Stdout = false
		logCfg.Output.Stderr = true
	}
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info(ctx, "starting advisord",
		zap.String("version", version),
		zap.Bool("mcp_enabled", cfg.MCP.Enabled),
		zap.Bool("http_enabled", cfg.Server.Enabled),
		zap.String("knowledge_dir", cfg.Knowledge.Dir),
	)

	base, err := knowledge.Load(cfg.Knowledge.Dir)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	logger.Info(ctx, "knowledge base loaded",
		zap.Int("scope_requirements", len(base.ScopeRequirements)),
		zap.Int("tool_profiles", len(base.ToolProfiles)),
		zap.Int("error_patterns", len(base.ErrorPatterns)),
		zap.Int("task_patterns", len(base.TaskPatterns)),
		zap.Int("solution_templates", len(base.SolutionTemplates)),
	)

	formatter, err := advisory.NewFormatter(base, cfg.Advisory.MinConfidence, cfg.Advisory.MaxAlternatives)
	if err != nil {
		return fmt.Errorf("failed to create formatter: %w", err)
	}

	tracer := tel.Tracer("github.com/fyrsmithlabs/advisord")

	permissionSvc, err := permission.NewService(base, formatter, logger, tracer)
	if err != nil {
		return fmt.Errorf("failed to create permission service: %w", err)
	}
	toolrecSvc, err := toolrec.NewService(base, formatter, logger, tracer)
	if err != nil {
		return fmt.Errorf("failed to create toolrec service: %w", err)
	}
	diagnoseSvc, err := diagnose.NewService(base, formatter, logger, tracer)
	if err != nil {
		return fmt.Errorf("failed to create diagnose service: %w", err)
	}

	errCh := make(chan error, 2)

	var httpSrv *httpapi.Server
	if cfg.Server.Enabled {
		httpSrv, err = httpapi.NewServer(permissionSvc, toolrecSvc, diagnoseSvc, logger, &httpapi.Config{
			Host: cfg.Server.Host,
			Port: cfg.Server.Port,
		})
		if err != nil {
			return fmt.Errorf("failed to create http server: %w", err)
		}
		go func() {
			if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	if cfg.MCP.Enabled {
		mcpSrv, err := mcp.NewServer(&mcp.Config{
			Name:    "advisord",
			Version: version,
			Logger:  logger,
		}, permissionSvc, toolrecSvc, diagnoseSvc)
		if err != nil {
			return fmt.Errorf("failed to create mcp server: %w", err)
		}
		go func() {
			if err := mcpSrv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("mcp server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	if httpSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(
			context.Background(), time.Duration(cfg.Server.ShutdownTimeout))
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
	}

	return nil
}
