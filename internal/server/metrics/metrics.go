// Package metrics exposes Prometheus collectors for the API server and the
// real-time push subsystem.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors registered for one server instance.
type Metrics struct {
	// Connections is the number of live WebSocket connections.
	Connections prometheus.Gauge

	// EventsPublished counts events published to the hub, labelled by kind.
	EventsPublished *prometheus.CounterVec

	// SendsDropped counts per-connection sends skipped because the
	// consumer's buffer was full.
	SendsDropped prometheus.Counter

	// HTTPRequests counts handled HTTP requests, labelled by method and
	// status class.
	HTTPRequests *prometheus.CounterVec
}

// New creates and registers the collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "snapserve_ws_connections",
			Help: "Current number of live WebSocket connections.",
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snapserve_ws_events_published_total",
			Help: "Total number of events published to the hub, by kind.",
		}, []string{"kind"}),
		SendsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "snapserve_ws_sends_dropped_total",
			Help: "Total number of per-connection sends dropped due to a full buffer.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snapserve_http_requests_total",
			Help: "Total number of HTTP requests handled, by method and status class.",
		}, []string{"method", "status"}),
	}
}

// Default creates collectors on a private registry, for use in tests.
func Default() *Metrics {
	return New(prometheus.NewRegistry())
}
