package plugdj

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "plugdj"

// Metrics counts what flows through a session. A nil *Metrics records
// nothing.
type Metrics struct {
	eventsReceived  *prometheus.CounterVec
	decodeFailures  prometheus.Counter
	handlerFailures *prometheus.CounterVec
	performances    prometheus.Counter
	chatSent        prometheus.Counter
	chatLimited     prometheus.Counter
	heartbeats      prometheus.Counter
}

// NewMetrics registers the session collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		eventsReceived: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_received_total",
			Help:      "Decoded socket events by kind.",
		}, []string{"kind"}),
		decodeFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "decode_failures_total",
			Help:      "Socket messages that could not be decoded.",
		}),
		handlerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "handler_failures_total",
			Help:      "Listener handlers that returned an error or panicked.",
		}, []string{"handler"}),
		performances: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "performances_ended_total",
			Help:      "Tracks replaced by an advance.",
		}),
		chatSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chat_sent_total",
			Help:      "Chat messages written to the socket.",
		}),
		chatLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chat_rate_limited_total",
			Help:      "Chat messages refused by the rate limiter.",
		}),
		heartbeats: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "socket_heartbeats_total",
			Help:      "Heartbeat frames received on the socket.",
		}),
	}
}

func (m *Metrics) eventReceived(kind string) {
	if m != nil {
		m.eventsReceived.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) decodeFailed() {
	if m != nil {
		m.decodeFailures.Inc()
	}
}

func (m *Metrics) handlerFailed(handler string) {
	if m != nil {
		m.handlerFailures.WithLabelValues(handler).Inc()
	}
}

func (m *Metrics) performanceEnded() {
	if m != nil {
		m.performances.Inc()
	}
}

func (m *Metrics) chatWritten() {
	if m != nil {
		m.chatSent.Inc()
	}
}

func (m *Metrics) chatRefused() {
	if m != nil {
		m.chatLimited.Inc()
	}
}

func (m *Metrics) heartbeat() {
	if m != nil {
		m.heartbeats.Inc()
	}
}
