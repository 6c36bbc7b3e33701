package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts flow outcomes.
type Metrics struct {
	Logins               *prometheus.CounterVec
	Logouts              prometheus.Counter
	LogoutNotifyFailures prometheus.Counter
}

// NewMetrics creates and registers the flow metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Logins: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "referral_portal",
				Name:      "logins_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"outcome"}, // success, invalid_input, rejected, unavailable, unknown_role, invalid_response, not_saved
		),
		Logouts: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "referral_portal",
				Name:      "logouts_total",
				Help:      "Logouts performed",
			},
		),
		LogoutNotifyFailures: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "referral_portal",
				Name:      "logout_notify_failures_total",
				Help:      "Logout notifications the API did not acknowledge",
			},
		),
	}
}

func (m *Metrics) login(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) logout(notifyErr error) {
	if m == nil {
		return
	}
	m.Logouts.Inc()
	if notifyErr != nil {
		m.LogoutNotifyFailures.Inc()
	}
}
