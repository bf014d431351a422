// Package main implements the advctl CLI for running advisory analyses
// from the terminal.
//
// The analyzers run in-process against the embedded knowledge base (or
// a knowledge directory given with --knowledge), so no daemon is needed
// for analysis. The health command probes a running advisord HTTP
// server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/diagnose"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
	"github.com/fyrsmithlabs/advisord/internal/permission"
	"github.com/fyrsmithlabs/advisord/internal/toolrec"
)

var (
	// serverURL is the base URL for the advisord HTTP server (health only)
	serverURL string
	// knowledgeDir overrides the embedded knowledge base
	knowledgeDir string
	// jsonOutput switches from the text report to raw JSON
	jsonOutput bool
	// minConfidence flags results below this score as fallbacks
	minConfidence float64
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "advctl",
	Short: "CLI for rule-based advisory analyses",
	Long: `advctl analyzes permission gaps, recommends tools for tasks, and
diagnoses API errors using a curated knowledge base.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9091", "advisord server URL (health command only)")
	rootCmd.PersistentFlags().StringVar(&knowledgeDir, "knowledge", "", "knowledge base directory (default: embedded)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON instead of a text report")
	rootCmd.PersistentFlags().Float64Var(&minConfidence, "min-confidence", 0, "flag results below this confidence as fallbacks")
	rootCmd.AddCommand(permissionsCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(healthCmd)
}

// analyzers bundles the in-process services for one CLI invocation.
type analyzers struct {
	permission *permission.Service
	toolrec    *toolrec.Service
	diagnose   *diagnose.Service
}

// newAnalyzers loads the knowledge base and builds the three services.
// CLI runs are quiet; logs above warn go to stderr.
func newAnalyzers() (*analyzers, error) {
	base, err := knowledge.Load(knowledgeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	formatter, err := advisory.NewFormatter(base, minConfidence, 2)
	if err != nil {
		return nil, err
	}

	logCfg := logging.NewDefaultConfig()
	logCfg.Level = zapcore.WarnLevel
	logCfg.Output.Stdout = false
	logCfg.Output.Stderr = true
	logCfg.Caller.Enabled = false
	logger, err := logging.NewLogger(logCfg, nil)
	if err != nil {
		return nil, err
	}

	tracer := noop.NewTracerProvider().Tracer("advctl")

	permissionSvc, err := permission.NewService(base, formatter, logger, tracer)
	if err != nil {
		return nil, err
	}
	toolrecSvc, err := toolrec.NewService(base, formatter, logger, tracer)
	if err != nil {
		return nil, err
	}
	diagnoseSvc, err := diagnose.NewService(base, formatter, logger, tracer)
	if err != nil {
		return nil, err
	}

	return &analyzers{
		permission: permissionSvc,
		toolrec:    toolrecSvc,
		diagnose:   diagnoseSvc,
	}, nil
}

// printResult renders a result as text or JSON per the --json flag.
func printResult(res *advisory.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Print(advisory.RenderText(res))
	return nil
}

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Analyze permission gaps for an API operation",
	Long: `Compare the permission scopes an operation requires against the
scopes a credential holds and report what is missing.

Examples:
  # Look up required scopes from the knowledge base
  advctl permissions --provider feishu_doc --action create --available docx:document:create

  # Supply the required scopes directly
  advctl permissions --required docx:document:create,docx:document:write_only --available docx:document:create`,
	RunE: runPermissions,
}

var (
	permProvider  string
	permAction    string
	permRequired  []string
	permAvailable []string
)

func init() {
	permissionsCmd.Flags().StringVar(&permProvider, "provider", "", "API provider (e.g. feishu_doc)")
	permissionsCmd.Flags().StringVar(&permAction, "action", "", "API action (e.g. create)")
	permissionsCmd.Flags().StringSliceVar(&permRequired, "required", nil, "required scopes (overrides provider/action lookup)")
	permissionsCmd.Flags().StringSliceVar(&permAvailable, "available", nil, "scopes the credential currently holds")
}

func runPermissions(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzers()
	if err != nil {
		return err
	}

	res, err := a.permission.Analyze(context.Background(), &permission.Query{
		Provider:        permProvider,
		Action:          permAction,
		RequiredScopes:  permRequired,
		AvailableScopes: permAvailable,
	})
	if err != nil {
		return err
	}

	return printResult(res)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Recommend tools for a task",
	Long: `Rank the tool catalog against a task's capability requirements and
complexity, or against a free-text task description.

Examples:
  # Rank by explicit capability requirements
  advctl tools --require javascript_execution,dynamic_content --complexity high

  # Rank by task description
  advctl tools "scrape product prices from an e-commerce site"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTools,
}

var (
	toolRequirements []string
	toolComplexity   string
)

func init() {
	toolsCmd.Flags().StringSliceVar(&toolRequirements, "require", nil, "capability tags the task needs")
	toolsCmd.Flags().StringVar(&toolComplexity, "complexity", "", "task complexity: low, medium, or high")
}

func runTools(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzers()
	if err != nil {
		return err
	}

	var description string
	if len(args) > 0 {
		description = args[0]
	}

	res, err := a.toolrec.Recommend(context.Background(), &toolrec.Query{
		TaskDescription: description,
		Complexity:      knowledge.Complexity(toolComplexity),
		Requirements:    toolRequirements,
	})
	if err != nil {
		return err
	}

	return printResult(res)
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <error-message>",
	Short: "Diagnose a failed API call",
	Long: `Match an error message against known failure patterns and report the
likely root cause with fix steps.

Examples:
  # Diagnose an error message
  advctl diagnose "403 Forbidden: insufficient permission"

  # Include the failing call and observed behavior
  advctl diagnose --api-call feishu_doc.create --status 403 "permission denied"`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

var (
	diagAPICall  string
	diagObserved string
	diagStatus   int
)

func init() {
	diagnoseCmd.Flags().StringVar(&diagAPICall, "api-call", "", "the API call that failed (e.g. feishu_doc.create)")
	diagnoseCmd.Flags().StringVar(&diagObserved, "observed", "", "what happened instead of the expected result")
	diagnoseCmd.Flags().IntVar(&diagStatus, "status", 0, "HTTP status code if known")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzers()
	if err != nil {
		return err
	}

	res, err := a.diagnose.Diagnose(context.Background(), &diagnose.Query{
		APICall:          diagAPICall,
		ErrorMessage:     args[0],
		ObservedBehavior: diagObserved,
		Status:           diagStatus,
	})
	if err != nil {
		return err
	}

	return printResult(res)
}
