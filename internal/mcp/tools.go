package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/diagnose"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/permission"
	"github.com/fyrsmithlabs/advisord/internal/toolrec"
)

type analyzePermissionsInput struct {
	APIName              string   `json:"api_name,omitempty" jsonschema:"API operation as provider.action (e.g. feishu_doc.create); resolves required permissions from the knowledge base"`
	RequiredPermissions  []string `json:"required_permissions,omitempty" jsonschema:"Permission scopes the operation requires; overrides api_name lookup"`
	AvailablePermissions []string `json:"available_permissions" jsonschema:"Permission scopes the credential currently holds"`
}

type analyzePermissionsOutput struct {
	AdvisoryID       string   `json:"advisory_id" jsonschema:"Advisory identifier"`
	Confidence       float64  `json:"confidence" jsonschema:"Scope coverage (0-1)"`
	Severity         string   `json:"severity" jsonschema:"Gap severity"`
	Summary          string   `json:"summary" jsonschema:"One-line summary"`
	MissingScopes    []string `json:"missing_scopes,omitempty" jsonschema:"Required scopes not granted"`
	SatisfiedScopes  []string `json:"satisfied_scopes,omitempty" jsonschema:"Required scopes already granted"`
	SuggestedActions []string `json:"suggested_actions,omitempty" jsonschema:"Remediation steps"`
	CorrectUsage     string   `json:"correct_usage,omitempty" jsonschema:"Usage guidance or workaround"`
	PreventionTips   []string `json:"prevention_tips,omitempty" jsonschema:"How to avoid the gap in future"`
}

type recommendToolsInput struct {
	TaskDescription string   `json:"task_description,omitempty" jsonschema:"Free-text description of the task"`
	Complexity      string   `json:"complexity,omitempty" jsonschema:"Task complexity: low, medium, or high (estimated from the description when omitted)"`
	Requirements    []string `json:"requirements,omitempty" jsonschema:"Capability tags the task needs"`
}

type recommendToolsOutput struct {
	AdvisoryID       string              `json:"advisory_id" jsonschema:"Advisory identifier"`
	Confidence       float64             `json:"confidence" jsonschema:"Score of the primary recommendation (0-1)"`
	Summary          string              `json:"summary" jsonschema:"One-line summary"`
	Primary          *advisory.ToolPick  `json:"primary,omitempty" jsonschema:"Best ranked tool"`
	Alternatives     []advisory.ToolPick `json:"alternatives,omitempty" jsonschema:"Next best tools"`
	SuggestedActions []string            `json:"suggested_actions,omitempty" jsonschema:"Setup or usage steps"`
	Fallback         bool                `json:"fallback,omitempty" jsonschema:"True when nothing matched confidently"`
}

type diagnoseErrorInput struct {
	APICall          string `json:"api_call,omitempty" jsonschema:"The API call that failed (e.g. feishu_doc.create)"`
	ErrorMessage     string `json:"error_message" jsonschema:"The error message returned; empty yields a generic fallback diagnosis"`
	ObservedBehavior string `json:"observed_behavior,omitempty" jsonschema:"What happened instead of the expected result"`
	Status           int    `json:"status,omitempty" jsonschema:"HTTP status code if known"`
}

type diagnoseErrorOutput struct {
	AdvisoryID       string   `json:"advisory_id" jsonschema:"Advisory identifier"`
	Confidence       float64  `json:"confidence" jsonschema:"Match confidence (0-1)"`
	Severity         string   `json:"severity" jsonschema:"Failure severity"`
	Category         string   `json:"category" jsonschema:"Error category"`
	Summary          string   `json:"summary" jsonschema:"One-line summary"`
	RootCause        string   `json:"root_cause" jsonschema:"Likely root cause"`
	SuggestedActions []string `json:"suggested_actions,omitempty" jsonschema:"Fix steps"`
	PreventionTips   []string `json:"prevention_tips,omitempty" jsonschema:"How to avoid the failure"`
	Fallback         bool     `json:"fallback,omitempty" jsonschema:"True when no pattern matched"`
}

// registerTools registers the three analyzer tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analyze_permissions",
		Description: "Compare required and available permission scopes and suggest remediation",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args analyzePermissionsInput) (*mcp.CallToolResult, analyzePermissionsOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "analyze_permissions")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "analyze_permissions")
			s.metrics.RecordInvocation(ctx, "analyze_permissions", time.Since(start), toolErr)
		}()

		query := &permission.Query{
			RequiredScopes:  args.RequiredPermissions,
			AvailableScopes: args.AvailablePermissions,
		}
		if len(args.RequiredPermissions) == 0 && args.APIName != "" {
			query.Provider, query.Action = splitAPIName(args.APIName)
		}

		result, err := s.permissionSvc.Analyze(ctx, query)
		if err != nil {
			toolErr = err
			return nil, analyzePermissionsOutput{}, toolErr
		}

		output := analyzePermissionsOutput{
			AdvisoryID:       result.ID,
			Confidence:       result.Confidence,
			Severity:         string(result.Severity),
			Summary:          result.Summary,
			MissingScopes:    result.MissingScopes,
			SatisfiedScopes:  result.SatisfiedScopes,
			SuggestedActions: result.SuggestedActions,
			CorrectUsage:     result.CorrectUsage,
			PreventionTips:   result.PreventionTips,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Permission analysis (confidence %.2f): %s", result.Confidence, result.Summary)},
			},
		}, output, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "recommend_tools",
		Description: "Rank catalog tools against a task's capability requirements and complexity",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args recommendToolsInput) (*mcp.CallToolResult, recommendToolsOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "recommend_tools")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "recommend_tools")
			s.metrics.RecordInvocation(ctx, "recommend_tools", time.Since(start), toolErr)
		}()

		result, err := s.toolrecSvc.Recommend(ctx, &toolrec.Query{
			TaskDescription: args.TaskDescription,
			Complexity:      knowledge.Complexity(args.Complexity),
			Requirements:    args.Requirements,
		})
		if err != nil {
			toolErr = err
			return nil, recommendToolsOutput{}, toolErr
		}

		output := recommendToolsOutput{
			AdvisoryID:       result.ID,
			Confidence:       result.Confidence,
			Summary:          result.Summary,
			Primary:          result.Primary,
			Alternatives:     result.Alternatives,
			SuggestedActions: result.SuggestedActions,
			Fallback:         result.Fallback,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Tool recommendation (confidence %.2f): %s", result.Confidence, result.Summary)},
			},
		}, output, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "diagnose_error",
		Description: "Match an API error against known failure patterns and return fix steps",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args diagnoseErrorInput) (*mcp.CallToolResult, diagnoseErrorOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "diagnose_error")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "diagnose_error")
			s.metrics.RecordInvocation(ctx, "diagnose_error", time.Since(start), toolErr)
		}()

		result, err := s.diagnoseSvc.Diagnose(ctx, &diagnose.Query{
			APICall:          args.APICall,
			ErrorMessage:     args.ErrorMessage,
			ObservedBehavior: args.ObservedBehavior,
			Status:           args.Status,
		})
		if err != nil {
			toolErr = err
			return nil, diagnoseErrorOutput{}, toolErr
		}

		output := diagnoseErrorOutput{
			AdvisoryID:       result.ID,
			Confidence:       result.Confidence,
			Severity:         string(result.Severity),
			Category:         string(result.Category),
			Summary:          result.Summary,
			RootCause:        result.RootCause,
			SuggestedActions: result.SuggestedActions,
			PreventionTips:   result.PreventionTips,
			Fallback:         result.Fallback,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Diagnosis (confidence %.2f): %s", result.Confidence, result.RootCause)},
			},
		}, output, nil
	})
}

// splitAPIName splits "provider.action" into its parts.
func splitAPIName(name string) (provider, action string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) != 2 {
		return name, ""
	}
	return parts[0], parts[1]
}
