// internal/logging/fields.go
package logging

import "go.uber.org/zap"

// Field helpers for the advisory domain, so log keys stay consistent
// across the analyzers.

// Confidence records a matcher confidence score.
func Confidence(v float64) zap.Field {
	return zap.Float64("confidence", v)
}

// Pattern records the matched error pattern id.
func Pattern(id string) zap.Field {
	return zap.String("pattern", id)
}

// Tool records a tool profile id.
func Tool(id string) zap.Field {
	return zap.String("tool", id)
}

// Scopes records a scope count under the given key.
func Scopes(key string, n int) zap.Field {
	return zap.Int(key, n)
}
