// Package tracing creates OpenTelemetry spans for lint passes.
//
// Each document pass gets a "lint.pass" span with one "lint.rule" child per
// rule run. Spans are exported over OTLP/gRPC when tracing is enabled:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.25
//
// With tracing disabled, New returns a noop tracer and a nil *Tracer is also
// safe to start spans on.
package tracing
