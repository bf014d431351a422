package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		logger, err := NewLogger(NewDefaultConfig(), nil)
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("invalid format rejected", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Format = "xml"
		_, err := NewLogger(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "format")
	})

	t.Run("no outputs rejected", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Output.Stdout = false
		cfg.Output.OTEL = false
		_, err := NewLogger(cfg, nil)
		require.Error(t, err)
	})
}

func TestLoggerContextFields(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithRequestID(context.Background(), "req-123")

	tl.Info(ctx, "handling query", zap.String("kind", "permission_gap"))

	tl.AssertLogged(t, zapcore.InfoLevel, "handling query")
	tl.AssertField(t, "handling query", "request.id", "req-123")
	tl.AssertField(t, "handling query", "kind", "permission_gap")
}

func TestLoggerTraceLevel(t *testing.T) {
	tl := NewTestLogger()
	tl.Trace(context.Background(), "pattern scored")
	tl.AssertLogged(t, TraceLevel, "pattern scored")
}

func TestLoggerChild(t *testing.T) {
	tl := NewTestLogger()
	child := tl.With(zap.String("component", "diagnose"))
	child.Warn(context.Background(), "low confidence match")
	tl.AssertField(t, "low confidence match", "component", "diagnose")
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"bogus", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := LevelFromString(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		tl := NewTestLogger()
		ctx := WithLogger(context.Background(), tl.Logger)
		assert.Same(t, tl.Logger, FromContext(ctx))
	})

	t.Run("returns nop logger when absent", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		// Must not panic
		logger.Info(context.Background(), "noop")
	})
}

func TestWithRequestIDValidation(t *testing.T) {
	assert.Panics(t, func() {
		WithRequestID(context.Background(), "")
	})
	assert.Panics(t, func() {
		WithRequestID(context.Background(), "bad id with spaces")
	})
	assert.NotPanics(t, func() {
		WithRequestID(context.Background(), "req_abc-123")
	})
}
