package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for registrations_total.
const (
	OutcomeCreated          = "created"
	OutcomeInvalid          = "invalid"
	OutcomeProvisionFailed  = "provision_failed"
	OutcomeMembershipFailed = "membership_failed"
)

// Metrics groups the collectors the API exports. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registrations         *prometheus.CounterVec
	referenceLoadFailures *prometheus.CounterVec
	evaluationsSaved      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talent",
			Name:      "registrations_total",
			Help:      "User registration submissions by outcome.",
		}, []string{"outcome"}),
		referenceLoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talent",
			Name:      "reference_load_failures_total",
			Help:      "Failed reference data loads by source.",
		}, []string{"source"}),
		evaluationsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talent",
			Name:      "evaluations_saved_total",
			Help:      "Saved evaluations by type (self, leader).",
		}, []string{"type"}),
	}
	reg.MustRegister(m.registrations, m.referenceLoadFailures, m.evaluationsSaved)
	return m
}

func (m *Metrics) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveReferenceLoadFailure(source string) {
	if m == nil {
		return
	}
	m.referenceLoadFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveEvaluationSaved(typ string) {
	if m == nil {
		return
	}
	m.evaluationsSaved.WithLabelValues(typ).Inc()
}
