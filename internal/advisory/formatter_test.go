package advisory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/advisord/internal/knowledge"
)

func newTestFormatter(t *testing.T, minConfidence float64) (*Formatter, *knowledge.Base) {
	t.Helper()
	base, err := knowledge.LoadDefault()
	require.NoError(t, err)
	f, err := NewFormatter(base, minConfidence, 2)
	require.NoError(t, err)
	return f, base
}

func TestNewFormatter(t *testing.T) {
	base, err := knowledge.LoadDefault()
	require.NoError(t, err)

	_, err = NewFormatter(nil, 0, 2)
	assert.ErrorContains(t, err, "knowledge base is required")

	_, err = NewFormatter(base, 1.5, 2)
	assert.ErrorContains(t, err, "min confidence")

	_, err = NewFormatter(base, 0, -1)
	assert.ErrorContains(t, err, "max alternatives")
}

func TestPermissionGapAllGranted(t *testing.T) {
	f, _ := newTestFormatter(t, 0)

	res := f.PermissionGap(nil, nil, []string{"docx:document:create"}, 1.0)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, KindPermissionGap, res.Kind)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, knowledge.SeverityLow, res.Severity)
	assert.Empty(t, res.MissingScopes)
	assert.Empty(t, res.SuggestedActions)
}

func TestPermissionGapMissingScopes(t *testing.T) {
	f, base := newTestFormatter(t, 0)
	req, ok := base.ScopesFor("feishu_doc", "create")
	require.True(t, ok)

	res := f.PermissionGap(req,
		[]string{"docx:document:write_only"},
		[]string{"docx:document:create"},
		0.5,
	)

	assert.Equal(t, 0.5, res.Confidence)
	assert.Equal(t, knowledge.SeverityHigh, res.Severity)
	assert.Equal(t, []string{"docx:document:write_only"}, res.MissingScopes)
	assert.Contains(t, res.SuggestedActions, "Request scope docx:document:write_only")
	// Workaround note from the scope requirement surfaces as usage guidance
	assert.NotEmpty(t, res.CorrectUsage)
	// Template long-term actions become prevention tips
	assert.NotEmpty(t, res.PreventionTips)
}

func TestToolRecommendation(t *testing.T) {
	f, _ := newTestFormatter(t, 0)

	picks := []ToolPick{
		{ToolID: "browser_automation", Score: 1.0, Reason: "covers 2/2 capabilities"},
		{ToolID: "http_client", Score: 0.5},
		{ToolID: "web_search", Score: 0.25},
		{ToolID: "local_file", Score: 0.1},
	}

	res := f.ToolRecommendation(picks, 1.0)

	require.NotNil(t, res.Primary)
	assert.Equal(t, "browser_automation", res.Primary.ToolID)
	assert.Len(t, res.Alternatives, 2) // capped by maxAlternatives
	assert.Equal(t, "http_client", res.Alternatives[0].ToolID)
	assert.False(t, res.Fallback)
	assert.NotEmpty(t, res.SuggestedActions)
}

func TestToolRecommendationFallback(t *testing.T) {
	f, _ := newTestFormatter(t, 0)

	res := f.ToolRecommendation(nil, 0)

	assert.True(t, res.Fallback)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Nil(t, res.Primary)
	assert.NotEmpty(t, res.RootCause)
}

func TestToolRecommendationBelowThreshold(t *testing.T) {
	f, _ := newTestFormatter(t, 0.6)

	picks := []ToolPick{{ToolID: "web_search", Score: 0.3}}
	res := f.ToolRecommendation(picks, 0.3)

	assert.True(t, res.Fallback)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Nil(t, res.Primary)
}

func TestErrorDiagnosis(t *testing.T) {
	f, base := newTestFormatter(t, 0)

	var pattern *knowledge.ErrorPattern
	for i := range base.ErrorPatterns {
		if base.ErrorPatterns[i].ID == "permission_denied" {
			pattern = &base.ErrorPatterns[i]
		}
	}
	require.NotNil(t, pattern)

	res := f.ErrorDiagnosis(pattern, 0.8)

	assert.Equal(t, knowledge.CategoryPermission, res.Category)
	assert.Equal(t, knowledge.SeverityHigh, res.Severity)
	assert.Equal(t, pattern.RootCause, res.RootCause)
	assert.False(t, res.Fallback)
	// Pattern fix steps come before template actions
	assert.Equal(t, pattern.FixSteps[0], res.SuggestedActions[0])
	assert.NotEmpty(t, res.PreventionTips)
}

func TestErrorDiagnosisFallback(t *testing.T) {
	f, _ := newTestFormatter(t, 0)

	res := f.ErrorDiagnosis(nil, 0)

	assert.True(t, res.Fallback)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, knowledge.CategoryUnknown, res.Category)
	assert.NotEmpty(t, res.RootCause)
	assert.NotEmpty(t, res.SuggestedActions)
}

func TestResultIDsUnique(t *testing.T) {
	f, _ := newTestFormatter(t, 0)
	a := f.ErrorDiagnosis(nil, 0)
	b := f.ErrorDiagnosis(nil, 0)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAppendUnique(t *testing.T) {
	got := appendUnique([]string{"a"}, "b", "a", "c", "b")
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestRenderText(t *testing.T) {
	f, _ := newTestFormatter(t, 0)

	res := f.PermissionGap(nil, []string{"docx:document:write_only"}, []string{"docx:document:create"}, 0.5)
	out := RenderText(res)

	assert.True(t, strings.HasPrefix(out, "Permission Gap Analysis"))
	assert.Contains(t, out, "Confidence: 0.50")
	assert.Contains(t, out, "docx:document:write_only")

	assert.Empty(t, RenderText(nil))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("task_description", "cannot be empty")
	assert.EqualError(t, err, "invalid query: task_description: cannot be empty")
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(assert.AnError))
}
