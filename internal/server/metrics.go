// ABOUTME: Prometheus metrics for the document store server
// ABOUTME: Per-server registry so tests can run multiple servers side by side

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each server instance
// carries its own registry.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsWritten *prometheus.CounterVec
	DocumentsDeleted *prometheus.CounterVec
	SnapshotsPushed  *prometheus.CounterVec
	FeedSubscribers  prometheus.Gauge
}

// NewMetrics creates and registers the server collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		DocumentsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "castline_documents_written_total",
			Help: "Documents merge-upserted, by collection.",
		}, []string{"collection"}),
		DocumentsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "castline_documents_deleted_total",
			Help: "Documents deleted, by collection.",
		}, []string{"collection"}),
		SnapshotsPushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "castline_feed_snapshots_total",
			Help: "Collection snapshots pushed to the live feed, by collection.",
		}, []string{"collection"}),
		FeedSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "castline_feed_subscribers",
			Help: "Currently connected live feed subscribers.",
		}),
	}
	reg.MustRegister(m.DocumentsWritten, m.DocumentsDeleted, m.SnapshotsPushed, m.FeedSubscribers)
	return m
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
