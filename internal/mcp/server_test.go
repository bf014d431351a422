package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/diagnose"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
	"github.com/fyrsmithlabs/advisord/internal/permission"
	"github.com/fyrsmithlabs/advisord/internal/telemetry"
	"github.com/fyrsmithlabs/advisord/internal/toolrec"
)

func newTestServices(t *testing.T) (*permission.Service, *toolrec.Service, *diagnose.Service) {
	t.Helper()

	base, err := knowledge.LoadDefault()
	require.NoError(t, err)
	formatter, err := advisory.NewFormatter(base, 0, 2)
	require.NoError(t, err)

	logger := logging.NewTestLogger().Logger
	tracer := telemetry.NewTestTelemetry().Tracer("test")

	permissionSvc, err := permission.NewService(base, formatter, logger, tracer)
	require.NoError(t, err)
	toolrecSvc, err := toolrec.NewService(base, formatter, logger, tracer)
	require.NoError(t, err)
	diagnoseSvc, err := diagnose.NewService(base, formatter, logger, tracer)
	require.NoError(t, err)

	return permissionSvc, toolrecSvc, diagnoseSvc
}

func TestNewServer(t *testing.T) {
	permissionSvc, toolrecSvc, diagnoseSvc := newTestServices(t)

	t.Run("successful creation", func(t *testing.T) {
		srv, err := NewServer(nil, permissionSvc, toolrecSvc, diagnoseSvc)
		require.NoError(t, err)
		assert.NotNil(t, srv)
		assert.NotNil(t, srv.mcp)
		assert.NotNil(t, srv.metrics)
	})

	t.Run("custom config", func(t *testing.T) {
		cfg := &Config{
			Name:    "advisord-test",
			Version: "9.9.9",
			Logger:  logging.NewTestLogger().Logger,
		}
		srv, err := NewServer(cfg, permissionSvc, toolrecSvc, diagnoseSvc)
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})

	t.Run("missing permission service", func(t *testing.T) {
		_, err := NewServer(nil, nil, toolrecSvc, diagnoseSvc)
		assert.Error(t, err)
	})

	t.Run("missing toolrec service", func(t *testing.T) {
		_, err := NewServer(nil, permissionSvc, nil, diagnoseSvc)
		assert.Error(t, err)
	})

	t.Run("missing diagnose service", func(t *testing.T) {
		_, err := NewServer(nil, permissionSvc, toolrecSvc, nil)
		assert.Error(t, err)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "advisord", cfg.Name)
	assert.Equal(t, "0.1.0", cfg.Version)
}

func TestSplitAPIName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		provider string
		action   string
	}{
		{"provider and action", "feishu_doc.create", "feishu_doc", "create"},
		{"extra dots stay in action", "feishu_doc.document.create", "feishu_doc", "document.create"},
		{"no dot", "feishu_doc", "feishu_doc", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, action := splitAPIName(tt.input)
			assert.Equal(t, tt.provider, provider)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestCategorizeError(t *testing.T) {
	assert.Equal(t, "", categorizeError(nil))
	assert.Equal(t, "validation_error", categorizeError(advisory.NewValidationError("field", "bad")))
	assert.Equal(t, "knowledge_error", categorizeError(errors.New("knowledge table broken")))
	assert.Equal(t, "not_found", categorizeError(errors.New("scope not found")))
	assert.Equal(t, "internal_error", categorizeError(errors.New("boom")))
}

func TestMetricsRecording(t *testing.T) {
	m := NewMetrics(logging.NewTestLogger().Logger)
	ctx := context.Background()

	// Nil-safe even when instrument creation failed; these must not panic.
	m.IncrementActive(ctx, "analyze_permissions")
	m.RecordInvocation(ctx, "analyze_permissions", 0, nil)
	m.RecordInvocation(ctx, "analyze_permissions", 0, errors.New("boom"))
	m.DecrementActive(ctx, "analyze_permissions")
}
