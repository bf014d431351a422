package advisory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/advisord/internal/knowledge"
)

// Formatter converts matcher output into advisory results.
//
// minConfidence decides whether a result carries the matched content
// or the generic fallback text. It never turns a result into an error.
type Formatter struct {
	base            *knowledge.Base
	minConfidence   float64
	maxAlternatives int
}

// NewFormatter creates a Formatter over the given knowledge base.
func NewFormatter(base *knowledge.Base, minConfidence float64, maxAlternatives int) (*Formatter, error) {
	if base == nil {
		return nil, fmt.Errorf("knowledge base is required")
	}
	if minConfidence < 0 || minConfidence > 1 {
		return nil, fmt.Errorf("min confidence must be between 0 and 1, got %f", minConfidence)
	}
	if maxAlternatives < 0 {
		return nil, fmt.Errorf("max alternatives must be >= 0, got %d", maxAlternatives)
	}
	return &Formatter{
		base:            base,
		minConfidence:   minConfidence,
		maxAlternatives: maxAlternatives,
	}, nil
}

// PermissionGap builds the result for a permission gap analysis.
// req may be nil when the query carried its own required scopes.
func (f *Formatter) PermissionGap(req *knowledge.ScopeRequirement, missing, satisfied []string, confidence float64) *Result {
	res := &Result{
		ID:              uuid.NewString(),
		Kind:            KindPermissionGap,
		Confidence:      clamp01(confidence),
		MissingScopes:   missing,
		SatisfiedScopes: satisfied,
	}

	if len(missing) == 0 {
		res.Severity = knowledge.SeverityLow
		res.Summary = fmt.Sprintf("all %d required scopes are granted", len(satisfied))
		return res
	}

	res.Severity = knowledge.SeverityHigh
	res.Summary = fmt.Sprintf("%d of %d required scopes missing", len(missing), len(missing)+len(satisfied))
	res.RootCause = "The credential does not carry every scope the operation requires."

	for _, scope := range missing {
		res.SuggestedActions = append(res.SuggestedActions, fmt.Sprintf("Request scope %s", scope))
	}
	if tmpl, ok := f.base.TemplateFor(knowledge.CategoryPermission); ok {
		res.SuggestedActions = appendUnique(res.SuggestedActions, tmpl.Immediate...)
		res.SuggestedActions = appendUnique(res.SuggestedActions, tmpl.ShortTerm...)
		res.PreventionTips = appendUnique(res.PreventionTips, tmpl.LongTerm...)
	}
	if req != nil && req.Notes != "" {
		res.CorrectUsage = req.Notes
	}

	return res
}

// ToolRecommendation builds the result for a ranked tool list.
// picks must already be sorted best-first.
func (f *Formatter) ToolRecommendation(picks []ToolPick, confidence float64) *Result {
	res := &Result{
		ID:         uuid.NewString(),
		Kind:       KindToolRecommendation,
		Confidence: clamp01(confidence),
		Severity:   knowledge.SeverityLow,
	}

	if len(picks) == 0 || res.Confidence < f.minConfidence {
		res.Confidence = 0
		res.Fallback = true
		res.Summary = "no tool in the catalog covers the requested capabilities"
		res.RootCause = "The requested capability tags match no declared tool profile."
		res.SuggestedActions = []string{
			"Break the task into steps that map onto declared tool capabilities.",
			"Extend the tool catalog if the capability is genuinely new.",
		}
		return res
	}

	primary := picks[0]
	res.Primary = &primary

	rest := picks[1:]
	if len(rest) > f.maxAlternatives {
		rest = rest[:f.maxAlternatives]
	}
	res.Alternatives = rest

	res.Summary = fmt.Sprintf("recommend %s (score %.2f)", primary.ToolID, primary.Score)
	if tool, ok := f.base.ToolByID(primary.ToolID); ok {
		res.SuggestedActions = append(res.SuggestedActions, fmt.Sprintf("Use %s: %s", tool.ID, tool.Description))
		if tool.RequiresAPIKey {
			res.SuggestedActions = append(res.SuggestedActions, fmt.Sprintf("Configure the API key %s requires before first use.", tool.ID))
		}
		if len(tool.Scopes) > 0 {
			res.Primary.RequiredScopes = tool.Scopes
		}
		res.CorrectUsage = tool.Notes
	}

	return res
}

// ErrorDiagnosis builds the result for a matched error pattern.
// pattern is nil when nothing in the table overlapped the message.
func (f *Formatter) ErrorDiagnosis(pattern *knowledge.ErrorPattern, confidence float64) *Result {
	res := &Result{
		ID:         uuid.NewString(),
		Kind:       KindErrorDiagnosis,
		Confidence: clamp01(confidence),
	}

	if pattern == nil || res.Confidence < f.minConfidence {
		res.Confidence = 0
		res.Fallback = true
		res.Severity = knowledge.SeverityMedium
		res.Category = knowledge.CategoryUnknown
		res.Summary = "error did not match any known failure pattern"
		res.RootCause = "The error message matches no known failure pattern; it needs manual inspection."
		res.SuggestedActions = []string{
			"Capture the full error response including status code and body.",
			"Compare the failing request against the endpoint documentation.",
		}
		return res
	}

	res.Severity = pattern.Severity
	res.Category = pattern.Category
	res.Summary = fmt.Sprintf("matched failure pattern %s", pattern.ID)
	res.RootCause = pattern.RootCause
	res.SuggestedActions = appendUnique(nil, pattern.FixSteps...)
	res.PreventionTips = appendUnique(nil, pattern.Prevention...)

	if tmpl, ok := f.base.TemplateFor(pattern.Category); ok {
		res.SuggestedActions = appendUnique(res.SuggestedActions, tmpl.Immediate...)
		res.SuggestedActions = appendUnique(res.SuggestedActions, tmpl.ShortTerm...)
		res.PreventionTips = appendUnique(res.PreventionTips, tmpl.LongTerm...)
	}

	return res
}

// appendUnique appends items not already present, preserving order.
func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range dst {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}
