// Package telemetry groups the observability subsystems of Ganymede.
//
// The subpackages are independent and individually optional:
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics for mutations, translations, and documents
//   - health: liveness and readiness checks with HTTP endpoints
//   - tracing: OpenTelemetry distributed tracing with OTLP export
package telemetry
