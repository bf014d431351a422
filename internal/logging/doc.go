// Package logging provides structured logging for advisord.
//
// The Logger wraps zap with context-aware methods that automatically
// attach trace correlation fields (trace_id, span_id) from the active
// OpenTelemetry span and the request ID carried in the context.
//
// # Outputs
//
// Logs can be written to stdout (JSON or console encoding) and bridged
// to an OpenTelemetry collector via otelzap. At least one output must
// be enabled.
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	logger.Info(ctx, "knowledge base loaded",
//	    zap.Int("tool_profiles", n),
//	)
package logging
