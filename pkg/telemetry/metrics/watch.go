package metrics

import (
	"mercator-hq/modlint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WatchMetrics tracks watch mode sessions.
//
// Metrics:
//   - modlint_watch_notifications_total: change notifications by trigger
//   - modlint_watch_coalesced_total: scheduled passes superseded by a newer edit
//   - modlint_watch_documents: documents currently holding findings
type WatchMetrics struct {
	notifications *prometheus.CounterVec
	coalesced     prometheus.Counter
	documents     prometheus.Gauge
}

// NewWatchMetrics creates and registers watch metrics with the provided registry.
func NewWatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "watch",
				Name:      "notifications_total",
				Help:      "Total number of document change notifications",
			},
			[]string{"trigger"},
		),
		coalesced: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "watch",
				Name:      "coalesced_total",
				Help:      "Total number of scheduled passes superseded by a newer notification",
			},
		),
		documents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "watch",
				Name:      "documents",
				Help:      "Number of documents with stored findings",
			},
		),
	}

	registry.MustRegister(wm.notifications, wm.coalesced, wm.documents)

	return wm
}

// RecordNotification counts one notification.
func (wm *WatchMetrics) RecordNotification(trigger string) {
	wm.notifications.WithLabelValues(trigger).Inc()
}

// RecordCoalesced counts one superseded pass.
func (wm *WatchMetrics) RecordCoalesced() {
	wm.coalesced.Inc()
}

// UpdateTrackedDocuments sets the tracked document gauge.
func (wm *WatchMetrics) UpdateTrackedDocuments(n int) {
	wm.documents.Set(float64(n))
}
