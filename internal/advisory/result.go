package advisory

import (
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
)

// Kind identifies which analyzer produced a result.
type Kind string

const (
	KindPermissionGap      Kind = "permission_gap"
	KindToolRecommendation Kind = "tool_recommendation"
	KindErrorDiagnosis     Kind = "error_diagnosis"
)

// ToolPick is one ranked tool recommendation.
type ToolPick struct {
	ToolID         string   `json:"tool_id"`
	Score          float64  `json:"score"`
	Reason         string   `json:"reason,omitempty"`
	RequiredScopes []string `json:"required_scopes,omitempty"`
	RequiresAPIKey bool     `json:"requires_api_key,omitempty"`
}

// Result is the advisory object returned by every analyzer. It is
// constructed fresh per call and never mutated after return.
type Result struct {
	ID         string             `json:"id"`
	Kind       Kind               `json:"kind"`
	Confidence float64            `json:"confidence"`
	Severity   knowledge.Severity `json:"severity"`
	Summary    string             `json:"summary"`
	RootCause  string             `json:"root_cause,omitempty"`

	// Permission gap fields
	MissingScopes   []string `json:"missing_scopes,omitempty"`
	SatisfiedScopes []string `json:"satisfied_scopes,omitempty"`

	// Tool recommendation fields
	Primary      *ToolPick  `json:"primary,omitempty"`
	Alternatives []ToolPick `json:"alternatives,omitempty"`

	// Error diagnosis fields
	Category knowledge.ErrorCategory `json:"category,omitempty"`

	SuggestedActions []string `json:"suggested_actions,omitempty"`
	CorrectUsage     string   `json:"correct_usage,omitempty"`
	PreventionTips   []string `json:"prevention_tips,omitempty"`

	// Fallback marks a best-effort result below the confidence
	// threshold (or with no match at all).
	Fallback bool `json:"fallback,omitempty"`
}

// clamp01 clamps a score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
