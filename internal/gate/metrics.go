package gate

import (
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts gate verdicts by capability and outcome.
type Metrics struct {
	decisions *prometheus.CounterVec
}

// NewMetrics creates the gate counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labquiz",
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Permission checks by capability and outcome.",
		}, []string{"access", "outcome"}),
	}
	reg.MustRegister(m.decisions)
	return m
}

func (m *Metrics) observe(access string, err error) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(access, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "allowed"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrUnknownCapability):
		return "unknown_capability"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInsufficientLevel):
		return "insufficient_level"
	}
	return "error"
}
