package metrics

import (
	"time"

	"mercator-hq/modlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// LintMetrics tracks lint passes.
//
// Metrics:
//   - modlint_lint_passes_total: passes by document kind and outcome
//   - modlint_lint_pass_duration_seconds: pass duration histogram
//   - modlint_lint_findings_total: findings by rule and severity
//   - modlint_lint_rule_faults_total: rules that failed or panicked
//   - modlint_lint_parse_failures_total: documents that could not be parsed
type LintMetrics struct {
	passesTotal   *prometheus.CounterVec
	passDuration  *prometheus.HistogramVec
	findingsTotal *prometheus.CounterVec
	ruleFaults    *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
}

// NewLintMetrics creates and registers lint metrics with the provided registry.
func NewLintMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LintMetrics {
	lm := &LintMetrics{
		passesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "lint",
				Name:      "passes_total",
				Help:      "Total number of lint passes",
			},
			[]string{"kind", "outcome"},
		),

		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "lint",
				Name:      "pass_duration_seconds",
				Help:      "Duration of lint passes in seconds",
				Buckets:   cfg.PassDurationBuckets,
			},
			[]string{"kind"},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "lint",
				Name:      "findings_total",
				Help:      "Total number of findings reported",
			},
			[]string{"rule", "severity"},
		),

		ruleFaults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "lint",
				Name:      "rule_faults_total",
				Help:      "Total number of rule runs that failed or panicked",
			},
			[]string{"rule"},
		),

		parseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "lint",
				Name:      "parse_failures_total",
				Help:      "Total number of documents that could not be parsed",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		lm.passesTotal,
		lm.passDuration,
		lm.findingsTotal,
		lm.ruleFaults,
		lm.parseFailures,
	)

	return lm
}

// RecordPass records one completed pass.
func (lm *LintMetrics) RecordPass(kind, outcome string, duration time.Duration) {
	lm.passesTotal.WithLabelValues(kind, outcome).Inc()
	lm.passDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordFinding counts one finding.
func (lm *LintMetrics) RecordFinding(rule, severity string) {
	lm.findingsTotal.WithLabelValues(rule, severity).Inc()
}

// RecordRuleFault counts one rule fault.
func (lm *LintMetrics) RecordRuleFault(rule string) {
	lm.ruleFaults.WithLabelValues(rule).Inc()
}

// RecordParseFailure counts one parse failure.
func (lm *LintMetrics) RecordParseFailure(kind string) {
	lm.parseFailures.WithLabelValues(kind).Inc()
}
