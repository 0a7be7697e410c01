package metrics

import (
	"time"

	"mercator-hq/modlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Pass outcomes recorded by RecordPass.
const (
	OutcomeOK          = "ok"
	OutcomeParseFailed = "parse_failed"
	OutcomeCanceled    = "canceled"
)

// Collector owns every Prometheus metric modlint records. A nil Collector,
// or one whose configuration is disabled, records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Lint pass metrics
	lintMetrics *LintMetrics

	// Watch mode metrics
	watchMetrics *WatchMetrics
}

// NewCollector creates a collector registering into registry. If registry is
// nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "modlint"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.PassDurationBuckets) == 0 {
		cfg.PassDurationBuckets = config.DefaultPassDurationBuckets
	}

	return &Collector{
		config:       cfg,
		registry:     registry,
		lintMetrics:  NewLintMetrics(cfg, registry),
		watchMetrics: NewWatchMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordPass records a completed lint pass for a document kind.
func (c *Collector) RecordPass(kind, outcome string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.lintMetrics.RecordPass(kind, outcome, duration)
}

// RecordFinding counts one reported finding.
func (c *Collector) RecordFinding(rule, severity string) {
	if !c.enabled() {
		return
	}
	c.lintMetrics.RecordFinding(rule, severity)
}

// RecordRuleFault counts a rule that failed or panicked.
func (c *Collector) RecordRuleFault(rule string) {
	if !c.enabled() {
		return
	}
	c.lintMetrics.RecordRuleFault(rule)
}

// RecordParseFailure counts a document that could not be parsed.
func (c *Collector) RecordParseFailure(kind string) {
	if !c.enabled() {
		return
	}
	c.lintMetrics.RecordParseFailure(kind)
}

// RecordNotification counts a change notification by trigger.
func (c *Collector) RecordNotification(trigger string) {
	if !c.enabled() {
		return
	}
	c.watchMetrics.RecordNotification(trigger)
}

// RecordCoalesced counts a scheduled pass that was superseded before running.
func (c *Collector) RecordCoalesced() {
	if !c.enabled() {
		return
	}
	c.watchMetrics.RecordCoalesced()
}

// UpdateTrackedDocuments sets the number of documents holding findings.
func (c *Collector) UpdateTrackedDocuments(n int) {
	if !c.enabled() {
		return
	}
	c.watchMetrics.UpdateTrackedDocuments(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
