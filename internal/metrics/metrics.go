// Package metrics exposes Prometheus instrumentation for the coordination
// service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "studyhall_active_connections",
		Help: "Live WebSocket connections attached to the coordinator.",
	})

	EventsRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_events_routed_total",
		Help: "Inbound client events routed, by event type.",
	}, []string{"type"})

	DroppedSends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyhall_dropped_sends_total",
		Help: "Outbound frames dropped because a recipient buffer was full or closed.",
	})
)

// Handler exposes Prometheus metrics, mounted at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
