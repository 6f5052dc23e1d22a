package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLookup("remote", OutcomeOK, 3, time.Millisecond)
		m.ObserveSynced(3)
	})
}

func TestObserveLookup(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLookup("remote", OutcomeOK, 3, 20*time.Millisecond)
	m.ObserveLookup("remote", OutcomeOK, 2, 10*time.Millisecond)
	m.ObserveLookup("bundle", OutcomeEmpty, 0, time.Millisecond)
	m.ObserveLookup("remote", OutcomeMalformed, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("remote", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("bundle", OutcomeEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("remote", OutcomeMalformed)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.LegislatorsReturned.WithLabelValues("remote")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.LookupDurationSeconds))
}

func TestObserveSynced(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveSynced(4)
	m.ObserveSynced(0)
	m.ObserveSynced(-1)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.SyncedTotal))
}
