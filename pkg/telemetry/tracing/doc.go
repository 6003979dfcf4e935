// Package tracing provides OpenTelemetry distributed tracing for the policy
// service.
//
// New initializes the OpenTelemetry SDK with an OTLP gRPC exporter and a
// parent-based ratio sampler. When tracing is disabled a no-op tracer is
// returned, so callers can create spans unconditionally.
package tracing
