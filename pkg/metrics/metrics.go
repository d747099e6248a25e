package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service counters. A nil *Metrics is valid and records
// nothing, so services can be built without a registry in tests.
type Metrics struct {
	statusWrites        *prometheus.CounterVec
	categoryAssignments *prometheus.CounterVec
	conflictsDetected   prometheus.Counter
	conflictsResolved   prometheus.Counter
	archivedRecords     prometheus.Counter
	summaryCache        *prometheus.CounterVec
}

// New registers the service metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		statusWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canvass",
			Subsystem: "status",
			Name:      "writes_total",
			Help:      "Status ledger writes broken down by operation and status value.",
		}, []string{"op", "status"}),
		categoryAssignments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canvass",
			Subsystem: "category",
			Name:      "assignments_total",
			Help:      "Category assignment changes broken down by operation.",
		}, []string{"op"}),
		conflictsDetected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "canvass",
			Subsystem: "conflict",
			Name:      "detected_total",
			Help:      "Conflicts materialised by scans.",
		}),
		conflictsResolved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "canvass",
			Subsystem: "conflict",
			Name:      "resolved_total",
			Help:      "Conflicts resolved by admins.",
		}),
		archivedRecords: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "canvass",
			Subsystem: "conflict",
			Name:      "archived_records_total",
			Help:      "Status records made inert by conflict resolution.",
		}),
		summaryCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canvass",
			Subsystem: "summary",
			Name:      "cache_requests_total",
			Help:      "Summary cache lookups broken down by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) StatusWritten(op, status string) {
	if m == nil {
		return
	}
	m.statusWrites.WithLabelValues(op, status).Inc()
}

func (m *Metrics) CategoryAssigned(op string) {
	if m == nil {
		return
	}
	m.categoryAssignments.WithLabelValues(op).Inc()
}

func (m *Metrics) ConflictsDetected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.conflictsDetected.Add(float64(n))
}

func (m *Metrics) ConflictResolved(archived int) {
	if m == nil {
		return
	}
	m.conflictsResolved.Inc()
	m.archivedRecords.Add(float64(archived))
}

func (m *Metrics) SummaryCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.summaryCache.WithLabelValues(result).Inc()
}
