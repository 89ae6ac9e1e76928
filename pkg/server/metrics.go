package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each server instance
// carries its own registry so tests can run several servers in one process
// without collector name collisions.
type Metrics struct {
	registry *prometheus.Registry

	activeSessions   prometheus.Gauge
	activeGroups     prometheus.Gauge
	connectionsTotal *prometheus.CounterVec
	authTotal        *prometheus.CounterVec
	messagesTotal    *prometheus.CounterVec
	deliveriesTotal  prometheus.Counter
	disconnectsTotal prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg. Passing nil
// creates a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lanchat_active_sessions",
			Help: "Number of currently authenticated sessions.",
		}),
		activeGroups: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lanchat_active_groups",
			Help: "Number of groups with at least one member.",
		}),
		connectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lanchat_connections_total",
			Help: "Accepted connections by transport.",
		}, []string{"transport"}),
		authTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lanchat_auth_attempts_total",
			Help: "Authentication attempts by outcome.",
		}, []string{"outcome"}),
		messagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lanchat_messages_total",
			Help: "Commands handled by kind (broadcast, private, group, control).",
		}, []string{"kind"}),
		deliveriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lanchat_deliveries_total",
			Help: "Individual message deliveries written to peer connections.",
		}),
		disconnectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lanchat_disconnects_total",
			Help: "Sessions torn down after an active period.",
		}),
	}
}

// Handler serves this server's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetActiveSessions records the current session count.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// SetActiveGroups records the current group count.
func (m *Metrics) SetActiveGroups(n int) {
	m.activeGroups.Set(float64(n))
}

// RecordConnection counts an accepted connection.
func (m *Metrics) RecordConnection(transportName string) {
	m.connectionsTotal.WithLabelValues(transportName).Inc()
}

// RecordAuth counts an authentication attempt ("success" or "failure").
func (m *Metrics) RecordAuth(outcome string) {
	m.authTotal.WithLabelValues(outcome).Inc()
}

// RecordMessage counts a handled command by kind.
func (m *Metrics) RecordMessage(kind string) {
	m.messagesTotal.WithLabelValues(kind).Inc()
}

// RecordDelivery counts one line written to a recipient.
func (m *Metrics) RecordDelivery() {
	m.deliveriesTotal.Inc()
}

// RecordDisconnect counts a completed session teardown.
func (m *Metrics) RecordDisconnect() {
	m.disconnectsTotal.Inc()
}
