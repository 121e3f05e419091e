package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "liste"

// Metrics are the server's prometheus collectors.
type Metrics struct {
	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Events      *prometheus.CounterVec
	Dropped     prometheus.Counter
	Subscribers prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "feed",
				Name:      "events_total",
				Help:      "Events published to the push feed by tag",
			},
			[]string{"tag"},
		),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "feed",
			Name:      "dropped_total",
			Help:      "Events dropped for lagging subscribers",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "feed",
			Name:      "subscribers",
			Help:      "Connected push feed subscribers",
		}),
	}
	reg.MustRegister(m.Requests, m.Duration, m.Events, m.Dropped, m.Subscribers)
	return m
}
