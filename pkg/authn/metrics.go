package authn

import "github.com/prometheus/client_golang/prometheus"

// Decision outcomes reported through the metrics counter.
const (
	outcomeAnonymousNew  = "anonymous_new"
	outcomeAnonymous     = "anonymous"
	outcomeAuthenticated = "authenticated"
	outcomeUnauthorized  = "unauthorized"
	outcomeError         = "error"
)

type metrics struct {
	decisions *prometheus.CounterVec
}

// newMetrics builds the decision counter and registers it when a registerer
// is configured. With a nil registerer the counter still counts, it is just
// never scraped; tests rely on that.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "platformkit",
			Subsystem: "authn",
			Name:      "decisions_total",
			Help:      "Authentication middleware decisions by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.decisions)
	}
	return m
}

func (m *metrics) observe(outcome string) {
	m.decisions.WithLabelValues(outcome).Inc()
}
