// Package metrics provides Prometheus metrics for the lite-server client.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "liteclient"
)

// Metrics contains all Prometheus metrics for a client instance.
type Metrics struct {
	// Session metrics
	ServersConnected prometheus.Gauge
	SessionsTotal    prometheus.Counter
	HandshakeLatency prometheus.Histogram
	HandshakeErrors  *prometheus.CounterVec

	// Frame / codec metrics
	FramesSent     prometheus.Counter
	FramesReceived prometheus.Counter
	BytesSent      prometheus.Counter
	BytesReceived  prometheus.Counter
	FrameErrors    *prometheus.CounterVec

	// Multiplexer metrics
	RequestsInFlight prometheus.Gauge
	RequestLatency   prometheus.Histogram
	RequestTimeouts  prometheus.Counter

	// Tracker metrics
	TrackerLastSeqno  *prometheus.GaugeVec
	TrackerFirstSeqno *prometheus.GaugeVec
	TrackerErrors     *prometheus.CounterVec

	// Router / balancer metrics
	RouteOutcomes  *prometheus.CounterVec
	ServerLoad     *prometheus.GaugeVec
	BalancerPicked *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Default returns the default metrics instance, registered against the
// global Prometheus registry.
func Default() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = NewMetrics()
	})
	return defaultMetrics
}

// NewMetrics creates a new Metrics instance registered against the global
// Prometheus registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a new Metrics instance with a custom
// registry, useful for tests that don't want to pollute the global one.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ServersConnected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "servers_connected",
			Help:      "Number of lite-servers with an established session",
		}),
		SessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of ADNL sessions established",
		}),
		HandshakeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handshake_latency_seconds",
			Help:      "Histogram of ADNL handshake latency",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		HandshakeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshake_errors_total",
			Help:      "Total handshake errors by kind",
		}, []string{"kind"}),

		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Total frames sent across all sessions",
		}),
		FramesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Total frames received across all sessions",
		}),
		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Total frame bytes sent across all sessions",
		}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Total frame bytes received across all sessions",
		}),
		FrameErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_errors_total",
			Help:      "Total frame decode errors by kind",
		}, []string{"kind"}),

		RequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_in_flight",
			Help:      "Number of requests awaiting a correlated response",
		}),
		RequestLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_latency_seconds",
			Help:      "Histogram of request/response round-trip latency",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		RequestTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_timeouts_total",
			Help:      "Total requests that exceeded their deadline",
		}),

		TrackerLastSeqno: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracker_last_seqno",
			Help:      "Latest known seqno per server and shard",
		}, []string{"server_id", "shard"}),
		TrackerFirstSeqno: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracker_first_seqno",
			Help:      "Earliest retrievable seqno per server and shard",
		}, []string{"server_id", "shard"}),
		TrackerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracker_errors_total",
			Help:      "Total tracker errors by kind",
		}, []string{"kind"}),

		RouteOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_outcomes_total",
			Help:      "Total routing outcomes by result",
		}, []string{"outcome"}),
		ServerLoad: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_load_seconds",
			Help:      "Peak-EWMA load estimate per server",
		}, []string{"server_id"}),
		BalancerPicked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balancer_picks_total",
			Help:      "Total requests routed to each server",
		}, []string{"server_id"}),
	}
}

// RecordHandshake records a successful handshake.
func (m *Metrics) RecordHandshake(latencySeconds float64) {
	m.ServersConnected.Inc()
	m.SessionsTotal.Inc()
	m.HandshakeLatency.Observe(latencySeconds)
}

// RecordHandshakeError records a handshake failure by kind.
func (m *Metrics) RecordHandshakeError(kind string) {
	m.HandshakeErrors.WithLabelValues(kind).Inc()
}

// RecordSessionClosed records a session going away.
func (m *Metrics) RecordSessionClosed() {
	m.ServersConnected.Dec()
}

// RecordFrameSent records an outgoing frame of n bytes.
func (m *Metrics) RecordFrameSent(n int) {
	m.FramesSent.Inc()
	m.BytesSent.Add(float64(n))
}

// RecordFrameReceived records an incoming frame of n bytes.
func (m *Metrics) RecordFrameReceived(n int) {
	m.FramesReceived.Inc()
	m.BytesReceived.Add(float64(n))
}

// RecordFrameError records a frame decode error by kind.
func (m *Metrics) RecordFrameError(kind string) {
	m.FrameErrors.WithLabelValues(kind).Inc()
}

// RecordRequestStart records a request entering flight.
func (m *Metrics) RecordRequestStart() {
	m.RequestsInFlight.Inc()
}

// RecordRequestDone records a request leaving flight with its latency.
func (m *Metrics) RecordRequestDone(latencySeconds float64) {
	m.RequestsInFlight.Dec()
	m.RequestLatency.Observe(latencySeconds)
}

// RecordRequestTimeout records a request that exceeded its deadline.
func (m *Metrics) RecordRequestTimeout() {
	m.RequestsInFlight.Dec()
	m.RequestTimeouts.Inc()
}

// RecordTrackerError records a tracker error by kind.
func (m *Metrics) RecordTrackerError(kind string) {
	m.TrackerErrors.WithLabelValues(kind).Inc()
}

// SetTrackerSeqno publishes the current last/first seqno for a server shard.
func (m *Metrics) SetTrackerSeqno(serverID, shard string, last, first int32) {
	m.TrackerLastSeqno.WithLabelValues(serverID, shard).Set(float64(last))
	m.TrackerFirstSeqno.WithLabelValues(serverID, shard).Set(float64(first))
}

// RecordRouteOutcome records the outcome of a routing decision.
func (m *Metrics) RecordRouteOutcome(outcome string) {
	m.RouteOutcomes.WithLabelValues(outcome).Inc()
}

// SetServerLoad publishes the current peak-EWMA load estimate for a server.
func (m *Metrics) SetServerLoad(serverID string, loadSeconds float64) {
	m.ServerLoad.WithLabelValues(serverID).Set(loadSeconds)
}

// RecordBalancerPick records a request routed to a server.
func (m *Metrics) RecordBalancerPick(serverID string) {
	m.BalancerPicked.WithLabelValues(serverID).Inc()
}
