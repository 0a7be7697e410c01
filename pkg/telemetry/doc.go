// Package telemetry groups the observability packages used by modlint.
//
//   - logging: slog loggers carrying pass and document context
//   - metrics: Prometheus collectors for lint passes and watch activity
//   - tracing: OpenTelemetry spans per pass and per rule
//   - health: watch-mode liveness and readiness endpoints
//
// Batch runs only log; metrics and health endpoints are served by watch
// mode when a listen address is configured, and tracing is enabled through
// telemetry.tracing.
package telemetry
