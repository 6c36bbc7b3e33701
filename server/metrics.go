package server

import (
	"strconv"
	"time"

	"github.com/jrsteele09/referral-portal/guard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and guard collectors for the portal.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	GuardDecisions  *prometheus.CounterVec
	RateLimited     prometheus.Counter
}

// NewMetrics registers the server collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "referral_portal",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "referral_portal",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		GuardDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "referral_portal",
				Name:      "guard_decisions_total",
				Help:      "Route guard outcomes on protected pages.",
			},
			[]string{"outcome"},
		),
		RateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "referral_portal",
				Name:      "login_rate_limited_total",
				Help:      "Login submissions refused by the rate limiter.",
			},
		),
	}
}

func (m *Metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) guardDecision(o guard.Outcome) {
	m.GuardDecisions.WithLabelValues(o.String()).Inc()
}
