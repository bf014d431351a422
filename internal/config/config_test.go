package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.MCP.Enabled)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, 9091, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, 0.0, cfg.Advisory.MinConfidence)
	assert.Equal(t, 2, cfg.Advisory.MaxAlternatives)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults valid",
			mutate: func(c *Config) {},
		},
		{
			name: "bad port",
			mutate: func(c *Config) {
				c.Server.Enabled = true
				c.Server.Port = 70000
			},
			wantErr: "invalid server port",
		},
		{
			name: "port ignored when server disabled",
			mutate: func(c *Config) {
				c.Server.Enabled = false
				c.Server.Port = 70000
			},
		},
		{
			name: "min confidence out of range",
			mutate: func(c *Config) {
				c.Advisory.MinConfidence = 1.5
			},
			wantErr: "min_confidence",
		},
		{
			name: "negative max alternatives",
			mutate: func(c *Config) {
				c.Advisory.MaxAlternatives = -1
			},
			wantErr: "max_alternatives",
		},
		{
			name: "bad logging format",
			mutate: func(c *Config) {
				c.Logging.Format = "yaml"
			},
			wantErr: "logging.format",
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

func TestDuration(t *testing.T) {
	t.Run("unmarshal text", func(t *testing.T) {
		var d Duration
		require.NoError(t, d.UnmarshalText([]byte("90s")))
		assert.Equal(t, 90*time.Second, d.Duration())
	})

	t.Run("negative rejected", func(t *testing.T) {
		var d Duration
		require.Error(t, d.UnmarshalText([]byte("-5s")))
	})

	t.Run("garbage rejected", func(t *testing.T) {
		var d Duration
		require.Error(t, d.UnmarshalText([]byte("soon")))
	})

	t.Run("marshal json", func(t *testing.T) {
		out, err := json.Marshal(Duration(2 * time.Minute))
		require.NoError(t, err)
		assert.Equal(t, `"2m0s"`, string(out))
	})
}

func TestValidateConfigPath(t *testing.T) {
	t.Run("outside allowed dirs rejected", func(t *testing.T) {
		err := validateConfigPath("/tmp/evil.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file must be in")
	})

	t.Run("etc advisord allowed", func(t *testing.T) {
		assert.NoError(t, validateConfigPath("/etc/advisord/config.yaml"))
	})
}
