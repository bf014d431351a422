package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "disabled skips validation",
			mutate: func(c *Config) { c.Endpoint = "" },
		},
		{
			name: "enabled requires endpoint",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Endpoint = ""
			},
			wantErr: "endpoint is required",
		},
		{
			name: "insecure remote endpoint rejected",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Endpoint = "collector.example.com:4317"
				c.Insecure = true
			},
			wantErr: "insecure connections to remote endpoints",
		},
		{
			name: "insecure localhost allowed",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Endpoint = "localhost:4317"
				c.Insecure = true
			},
		},
		{
			name: "sampling rate out of range",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Sampling.Rate = 2.0
			},
			wantErr: "sampling.rate",
		},
		{
			name: "bad protocol",
			mutate: func(c *Config) {
				c.Enabled = true
				c.Protocol = "thrift"
			},
			wantErr: "protocol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDisabledTelemetryIsNoop(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)

	assert.False(t, tel.IsEnabled())
	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNilTelemetrySafe(t *testing.T) {
	var tel *Telemetry
	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.False(t, tel.IsEnabled())
	assert.True(t, tel.Health().Degraded)
}

func TestTestTelemetryRecordsSpans(t *testing.T) {
	tt := NewTestTelemetry()

	tracer := tt.Tracer("advisord.test")
	_, span := tracer.Start(context.Background(), "diagnose.Error",
		oteltrace.WithAttributes(attribute.String("error.category", "permission")),
	)
	span.End()

	tt.AssertSpanExists(t, "diagnose.Error")
	tt.AssertSpanAttribute(t, "diagnose.Error", "error.category", "permission")
}

func TestTestTelemetryCollectsMetrics(t *testing.T) {
	tt := NewTestTelemetry()
	ctx := context.Background()

	meter := tt.Meter("advisord.test")
	counter, err := meter.Int64Counter("advisory.requests")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	rm, err := tt.CollectMetrics(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rm.ScopeMetrics)
	assert.Equal(t, "advisory.requests", rm.ScopeMetrics[0].Metrics[0].Name)
}
