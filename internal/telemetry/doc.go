// Package telemetry provides OpenTelemetry instrumentation for advisord.
//
// # Overview
//
// This package implements distributed tracing and metrics collection using
// the OpenTelemetry Go SDK. Telemetry data is exported to an OTEL Collector
// over OTLP (gRPC or http/protobuf).
//
// # Usage
//
// Create telemetry instance:
//
//	cfg := telemetry.NewDefaultConfig()
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(ctx)
//
// Use tracer and meter:
//
//	tracer := tel.Tracer("advisord.diagnose")
//	ctx, span := tracer.Start(ctx, "diagnose.Error")
//	defer span.End()
//
//	meter := tel.Meter("advisord.mcp")
//	counter, _ := meter.Int64Counter("mcp.tool.invocations")
//	counter.Add(ctx, 1)
//
// # Error Handling
//
// Telemetry failures do not crash the application. If telemetry cannot be
// initialized, the instance degrades gracefully and returns no-op providers.
//
// # Testing
//
// Use TestTelemetry for tests:
//
//	tt := telemetry.NewTestTelemetry()
//	tracer := tt.Tracer("test")
//	_, span := tracer.Start(ctx, "test-span")
//	span.End()
//	tt.AssertSpanExists(t, "test-span")
package telemetry
