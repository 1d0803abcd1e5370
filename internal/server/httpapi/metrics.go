package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the HTTP layer updates. They are registered
// on a caller-supplied registry so tests and servers do not share state.
type Metrics struct {
	inFlight   prometheus.Gauge
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	authEvents *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_events_total",
				Help: "Account lifecycle events by outcome.",
			},
			[]string{"event", "outcome"},
		),
	}
	reg.MustRegister(m.inFlight, m.requests, m.duration, m.authEvents)
	return m
}

func (m *Metrics) authEvent(event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}
