// Package metrics records Prometheus metrics for lint passes and watch
// sessions.
//
// Every component receives the same *Collector. Recording is a no-op when the
// collector is nil or disabled, so callers never guard metric calls:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordPass("source", metrics.OutcomeOK, time.Since(start))
//
// Watch mode serves the registry through Handler.
package metrics
