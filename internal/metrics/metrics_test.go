package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRegistration(OutcomeCreated)
	m.ObserveRegistration(OutcomeCreated)
	m.ObserveRegistration(OutcomeInvalid)
	m.ObserveReferenceLoadFailure("tracks")
	m.ObserveEvaluationSaved("leader")

	require.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues(OutcomeCreated)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues(OutcomeInvalid)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.referenceLoadFailures.WithLabelValues("tracks")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.evaluationsSaved.WithLabelValues("leader")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveRegistration(OutcomeCreated)
		m.ObserveReferenceLoadFailure("users")
		m.ObserveEvaluationSaved("self")
	})
}
