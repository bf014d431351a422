package advisory

import (
	"fmt"
	"strings"
)

// RenderText renders a result as a plain-text report for CLI output.
func RenderText(res *Result) string {
	if res == nil {
		return ""
	}

	var b strings.Builder

	switch res.Kind {
	case KindPermissionGap:
		b.WriteString("Permission Gap Analysis\n")
	case KindToolRecommendation:
		b.WriteString("Tool Recommendation\n")
	case KindErrorDiagnosis:
		b.WriteString("Error Diagnosis\n")
	default:
		b.WriteString("Advisory\n")
	}
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Summary:    %s\n", res.Summary)
	fmt.Fprintf(&b, "Confidence: %.2f\n", res.Confidence)
	fmt.Fprintf(&b, "Severity:   %s\n", res.Severity)
	if res.Fallback {
		b.WriteString("Note:       best-effort fallback, no confident match\n")
	}
	if res.Category != "" {
		fmt.Fprintf(&b, "Category:   %s\n", res.Category)
	}
	if res.RootCause != "" {
		fmt.Fprintf(&b, "Root cause: %s\n", res.RootCause)
	}

	if len(res.MissingScopes) > 0 {
		b.WriteString("\nMissing scopes:\n")
		for _, s := range res.MissingScopes {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if len(res.SatisfiedScopes) > 0 {
		b.WriteString("\nSatisfied scopes:\n")
		for _, s := range res.SatisfiedScopes {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}

	if res.Primary != nil {
		fmt.Fprintf(&b, "\nRecommended tool: %s (score %.2f)\n", res.Primary.ToolID, res.Primary.Score)
		if res.Primary.Reason != "" {
			fmt.Fprintf(&b, "  reason: %s\n", res.Primary.Reason)
		}
		for _, alt := range res.Alternatives {
			fmt.Fprintf(&b, "Alternative: %s (score %.2f)\n", alt.ToolID, alt.Score)
		}
	}

	if len(res.SuggestedActions) > 0 {
		b.WriteString("\nSuggested actions:\n")
		for i, a := range res.SuggestedActions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, a)
		}
	}
	if res.CorrectUsage != "" {
		fmt.Fprintf(&b, "\nUsage note: %s\n", res.CorrectUsage)
	}
	if len(res.PreventionTips) > 0 {
		b.WriteString("\nPrevention:\n")
		for _, p := range res.PreventionTips {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}

	return b.String()
}
