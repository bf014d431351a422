package permission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
	"github.com/fyrsmithlabs/advisord/internal/telemetry"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	base, err := knowledge.LoadDefault()
	require.NoError(t, err)
	formatter, err := advisory.NewFormatter(base, 0, 2)
	require.NoError(t, err)
	tel := telemetry.NewTestTelemetry()
	svc, err := NewService(base, formatter, logging.NewTestLogger().Logger, tel.Tracer("test"))
	require.NoError(t, err)
	return svc
}

func TestNewServiceNilDeps(t *testing.T) {
	base, err := knowledge.LoadDefault()
	require.NoError(t, err)
	formatter, err := advisory.NewFormatter(base, 0, 2)
	require.NoError(t, err)
	logger := logging.NewTestLogger().Logger
	tracer := telemetry.NewTestTelemetry().Tracer("test")

	_, err = NewService(nil, formatter, logger, tracer)
	assert.ErrorContains(t, err, "knowledge base is required")
	_, err = NewService(base, nil, logger, tracer)
	assert.ErrorContains(t, err, "formatter is required")
	_, err = NewService(base, formatter, nil, tracer)
	assert.ErrorContains(t, err, "logger is required")
	_, err = NewService(base, formatter, logger, nil)
	assert.ErrorContains(t, err, "tracer is required")
}

func TestGap(t *testing.T) {
	tests := []struct {
		name           string
		required       []string
		available      []string
		wantMissing    []string
		wantSatisfied  []string
		wantConfidence float64
	}{
		{
			name:           "partial coverage",
			required:       []string{"docx:document:create", "docx:document:write_only"},
			available:      []string{"docx:document:create"},
			wantMissing:    []string{"docx:document:write_only"},
			wantSatisfied:  []string{"docx:document:create"},
			wantConfidence: 0.5,
		},
		{
			name:           "full coverage",
			required:       []string{"a", "b"},
			available:      []string{"b", "a", "c"},
			wantSatisfied:  []string{"a", "b"},
			wantConfidence: 1.0,
		},
		{
			name:           "no coverage",
			required:       []string{"a", "b"},
			available:      nil,
			wantMissing:    []string{"a", "b"},
			wantConfidence: 0.0,
		},
		{
			name:           "empty required",
			required:       nil,
			available:      []string{"a"},
			wantConfidence: 1.0,
		},
		{
			name:           "duplicates in required counted once",
			required:       []string{"a", "a", "b"},
			available:      []string{"a"},
			wantMissing:    []string{"b"},
			wantSatisfied:  []string{"a"},
			wantConfidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, satisfied, confidence := Gap(tt.required, tt.available)
			assert.Equal(t, tt.wantMissing, missing)
			assert.Equal(t, tt.wantSatisfied, satisfied)
			assert.InDelta(t, tt.wantConfidence, confidence, 1e-9)
		})
	}
}

func TestAnalyzeExplicitScopes(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Analyze(context.Background(), &Query{
		RequiredScopes:  []string{"docx:document:create", "docx:document:write_only"},
		AvailableScopes: []string{"docx:document:create"},
	})
	require.NoError(t, err)

	assert.Equal(t, advisory.KindPermissionGap, res.Kind)
	assert.Equal(t, []string{"docx:document:write_only"}, res.MissingScopes)
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
}

func TestAnalyzeResolvesScopesFromKnowledge(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Analyze(context.Background(), &Query{
		Provider:        "feishu_doc",
		Action:          "create",
		AvailableScopes: []string{"docx:document:create"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"docx:document:write_only"}, res.MissingScopes)
	// Knowledge base notes surface as usage guidance
	assert.NotEmpty(t, res.CorrectUsage)
}

func TestAnalyzeValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, nil)
	assert.True(t, advisory.IsValidationError(err))

	_, err = svc.Analyze(ctx, &Query{AvailableScopes: []string{"a"}})
	assert.True(t, advisory.IsValidationError(err))

	_, err = svc.Analyze(ctx, &Query{Provider: "feishu_doc"})
	assert.True(t, advisory.IsValidationError(err))

	_, err = svc.Analyze(ctx, &Query{RequiredScopes: []string{" "}})
	assert.True(t, advisory.IsValidationError(err))

	_, err = svc.Analyze(ctx, &Query{Provider: "no_such", Action: "create"})
	assert.True(t, advisory.IsValidationError(err))
}

func TestAnalyzeDeterministic(t *testing.T) {
	svc := newTestService(t)
	q := &Query{
		RequiredScopes:  []string{"a", "b", "c"},
		AvailableScopes: []string{"b"},
	}

	first, err := svc.Analyze(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first.MissingScopes, second.MissingScopes)
	assert.Equal(t, first.Confidence, second.Confidence)
}
