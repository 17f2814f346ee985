package waitlist

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess     = "success"
	outcomeInvalid     = "invalid"
	outcomeDuplicate   = "duplicate"
	outcomeUnavailable = "unavailable"
	outcomeFailed      = "failed"
	outcomeShared      = "shared"
	outcomeCancelled   = "cancelled"
)

type submissionMetrics struct {
	submissions     *prometheus.CounterVec
	fallbackAppends *prometheus.CounterVec
}

// newSubmissionMetrics registers on reg, reusing collectors that are already there.
// A nil reg yields working but unexported counters.
func newSubmissionMetrics(reg prometheus.Registerer) *submissionMetrics {
	m := &submissionMetrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_submissions_total",
				Help: "Waitlist submissions by backend and outcome.",
			},
			[]string{"backend", "outcome"},
		),
		fallbackAppends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_fallback_appends_total",
				Help: "Fallback list appends by store and outcome.",
			},
			[]string{"store", "outcome"},
		),
	}

	if reg == nil {
		return m
	}

	m.submissions = registerCounterVec(reg, m.submissions)
	m.fallbackAppends = registerCounterVec(reg, m.fallbackAppends)
	return m
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}

func (m *submissionMetrics) observeSubmission(backend, outcome string) {
	m.submissions.WithLabelValues(backend, outcome).Inc()
}

func (m *submissionMetrics) observeFallback(store, outcome string) {
	m.fallbackAppends.WithLabelValues(store, outcome).Inc()
}
