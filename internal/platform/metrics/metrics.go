package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "regcheck"

// Metrics holds all Prometheus metrics for the application.
// Methods are safe to call on a nil receiver so tests can pass nil.
type Metrics struct {
	ChecksCreated        *prometheus.CounterVec
	ChecksRemoved        prometheus.Counter
	ChecksArchived       prometheus.Counter
	ResultsProcessed     *prometheus.CounterVec
	ResultsRejected      *prometheus.CounterVec
	IdentityCacheLookups *prometheus.CounterVec
	PublishFailures      *prometheus.CounterVec
	StalePending         *prometheus.GaugeVec
	ScheduledRuns        *prometheus.CounterVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ChecksCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_created_total",
			Help:      "Register checks created from initiate events",
		}, []string{"source_type"}),
		ChecksRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_removed_total",
			Help:      "Register checks deleted by remove-data events",
		}),
		ChecksArchived: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_archived_total",
			Help:      "Terminal register checks moved to ARCHIVED",
		}),
		ResultsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_processed_total",
			Help:      "Accepted match results by resolved status",
		}, []string{"status"}),
		ResultsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_rejected_total",
			Help:      "Rejected match results by error code",
		}, []string{"code"}),
		IdentityCacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_cache_lookups_total",
			Help:      "Identity cache lookups by outcome",
		}, []string{"outcome"}),
		PublishFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Failed sends to downstream topics",
		}, []string{"topic"}),
		StalePending: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_pending_checks",
			Help:      "Pending checks older than the stale threshold at the last sweep",
		}, []string{"jurisdiction"}),
		ScheduledRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_runs_total",
			Help:      "Scheduled job occurrences by job and outcome",
		}, []string{"job", "outcome"}),
	}
}

func (m *Metrics) IncChecksCreated(sourceType string) {
	if m == nil {
		return
	}
	m.ChecksCreated.WithLabelValues(sourceType).Inc()
}

func (m *Metrics) AddChecksRemoved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ChecksRemoved.Add(float64(n))
}

func (m *Metrics) AddChecksArchived(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ChecksArchived.Add(float64(n))
}

func (m *Metrics) IncResultProcessed(status string) {
	if m == nil {
		return
	}
	m.ResultsProcessed.WithLabelValues(status).Inc()
}

func (m *Metrics) IncResultRejected(code string) {
	if m == nil {
		return
	}
	m.ResultsRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) IncIdentityCacheHit() {
	if m == nil {
		return
	}
	m.IdentityCacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) IncIdentityCacheMiss() {
	if m == nil {
		return
	}
	m.IdentityCacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) IncPublishFailure(topic string) {
	if m == nil {
		return
	}
	m.PublishFailures.WithLabelValues(topic).Inc()
}

// SetStalePending replaces the per-jurisdiction gauge with the latest sweep.
func (m *Metrics) SetStalePending(counts map[string]int) {
	if m == nil {
		return
	}
	m.StalePending.Reset()
	for j, n := range counts {
		m.StalePending.WithLabelValues(j).Set(float64(n))
	}
}

// IncScheduledRun records a job occurrence: ran, skipped, or failed.
func (m *Metrics) IncScheduledRun(job, outcome string) {
	if m == nil {
		return
	}
	m.ScheduledRuns.WithLabelValues(job, outcome).Inc()
}
