package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for client operations.
type Metrics struct {
	Logins                prometheus.Counter
	LegacyFallbackLogins  prometheus.Counter
	AuthFailures          *prometheus.CounterVec
	TokenVerifications    *prometheus.CounterVec
	UnauthorizedEvictions prometheus.Counter
	RequestDurationMs     *prometheus.HistogramVec
}

// New registers and returns client metrics collectors on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers collectors on the given registerer. Tests pass a fresh
// registry so suites can run in parallel without duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_logins_total",
			Help: "Total number of successful logins",
		}),
		LegacyFallbackLogins: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_legacy_fallback_logins_total",
			Help: "Total number of logins satisfied by the legacy admin fallback",
		}),
		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_auth_failures_total",
			Help: "Total number of authentication failures by error code",
		}, []string{"code"}),
		TokenVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_token_verifications_total",
			Help: "Total number of token verification checks by outcome",
		}, []string{"outcome"}),
		UnauthorizedEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_unauthorized_evictions_total",
			Help: "Total number of sessions cleared after an auth-rejected API call",
		}),
		RequestDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intake_api_request_duration_ms",
			Help:    "Duration of remote API requests in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "outcome"}),
	}
}
