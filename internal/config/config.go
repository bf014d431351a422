// Package config provides configuration loading for advisord.
//
// Configuration is loaded from a YAML file with environment variable
// overrides and sensible defaults.
package config

import (
	"fmt"
	"time"
)

// Config holds the complete advisord configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	MCP       MCPConfig       `koanf:"mcp"`
	Knowledge KnowledgeConfig `koanf:"knowledge"`
	Advisory  AdvisoryConfig  `koanf:"advisory"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Enabled         bool     `koanf:"enabled"`
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// MCPConfig holds MCP stdio server configuration.
type MCPConfig struct {
	Enabled bool `koanf:"enabled"`
}

// KnowledgeConfig holds knowledge base configuration.
//
// Dir points at a directory of YAML knowledge files. When empty, the
// embedded default knowledge base is used.
type KnowledgeConfig struct {
	Dir string `koanf:"dir"`
}

// AdvisoryConfig holds analyzer tuning.
type AdvisoryConfig struct {
	// MinConfidence is the threshold below which a result is flagged as
	// a low-confidence fallback. It never turns a result into an error.
	MinConfidence float64 `koanf:"min_confidence"`
	// MaxAlternatives caps the number of alternative tool picks returned.
	MaxAlternatives int `koanf:"max_alternatives"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Enabled {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
		}
		if c.Server.ShutdownTimeout.Duration() <= 0 {
			return fmt.Errorf("shutdown timeout must be positive")
		}
	}

	if c.Advisory.MinConfidence < 0 || c.Advisory.MinConfidence > 1 {
		return fmt.Errorf("advisory.min_confidence must be between 0 and 1, got %f", c.Advisory.MinConfidence)
	}
	if c.Advisory.MaxAlternatives < 0 {
		return fmt.Errorf("advisory.max_alternatives must be >= 0, got %d", c.Advisory.MaxAlternatives)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9091
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Advisory.MaxAlternatives == 0 {
		cfg.Advisory.MaxAlternatives = 2
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// NewDefaultConfig returns a config with all defaults applied and the
// MCP stdio server enabled.
func NewDefaultConfig() *Config {
	cfg := &Config{
		MCP: MCPConfig{Enabled: true},
	}
	applyDefaults(cfg)
	return cfg
}
