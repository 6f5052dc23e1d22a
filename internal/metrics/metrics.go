// Package metrics provides Prometheus metrics for legislator lookups and syncs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
	OutcomeMalformed = "malformed"
)

type Metrics struct {
	LookupsTotal          *prometheus.CounterVec   // lookups by source and outcome
	LookupDurationSeconds *prometheus.HistogramVec // lookup latency by source
	LegislatorsReturned   *prometheus.CounterVec   // legislators mapped by source
	SyncedTotal           prometheus.Counter       // legislators written by admin/cmd sync
}

// New registers all metrics on reg. Pass prometheus.NewRegistry() in tests to
// avoid duplicate registration on the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citizenhub_lookups_total",
			Help: "Total number of legislator lookups by source and outcome",
		}, []string{"source", "outcome"}),

		LookupDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citizenhub_lookup_duration_seconds",
			Help:    "Duration of legislator lookups by source",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		LegislatorsReturned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citizenhub_legislators_returned_total",
			Help: "Total number of legislators returned by source",
		}, []string{"source"}),

		SyncedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "citizenhub_legislators_synced_total",
			Help: "Total number of legislators persisted by sync runs",
		}),
	}
}

// ObserveLookup records one completed lookup. Safe to call on a nil receiver.
func (m *Metrics) ObserveLookup(source, outcome string, count int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(source, outcome).Inc()
	m.LookupDurationSeconds.WithLabelValues(source).Observe(elapsed.Seconds())
	if count > 0 {
		m.LegislatorsReturned.WithLabelValues(source).Add(float64(count))
	}
}

func (m *Metrics) ObserveSynced(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SyncedTotal.Add(float64(n))
}
