package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors used across the library adapter.
// All helper methods are safe to call on a nil receiver.
type Metrics struct {
	Registry          *prometheus.Registry
	QueriesTotal      *prometheus.CounterVec
	RecordsResolved   prometheus.Counter
	AnalysisFallbacks *prometheus.CounterVec
	ExportBooksTotal  *prometheus.CounterVec
	ExportRunsTotal   *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	queries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_library_queries_total",
			Help: "Listing and search queries issued against the library.",
		},
		[]string{"operation"},
	)
	resolved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shelf_records_resolved_total",
			Help: "Book records fully resolved into flat records.",
		},
	)
	fallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_analysis_fallbacks_total",
			Help: "Cover analyses that degraded to a default value.",
		},
		[]string{"analysis"},
	)
	exportBooks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_export_books_total",
			Help: "Books handled by the metadata export, by outcome.",
		},
		[]string{"result"},
	)
	exportRuns := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelf_export_runs_total",
			Help: "Metadata export runs, by outcome.",
		},
		[]string{"result"},
	)

	registry.MustRegister(queries, resolved, fallbacks, exportBooks, exportRuns)

	return &Metrics{
		Registry:          registry,
		QueriesTotal:      queries,
		RecordsResolved:   resolved,
		AnalysisFallbacks: fallbacks,
		ExportBooksTotal:  exportBooks,
		ExportRunsTotal:   exportRuns,
	}
}

// IncQuery increments the query counter for an operation label.
func (m *Metrics) IncQuery(operation string) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(operation).Inc()
}

// IncResolved increments the resolved records counter.
func (m *Metrics) IncResolved() {
	if m == nil {
		return
	}
	m.RecordsResolved.Inc()
}

// RecordFallback counts an analysis that returned its default value.
func (m *Metrics) RecordFallback(analysis string) {
	if m == nil {
		return
	}
	m.AnalysisFallbacks.WithLabelValues(analysis).Inc()
}

// IncExportBook counts a book handled by the export ("exported" or "skipped").
func (m *Metrics) IncExportBook(result string) {
	if m == nil {
		return
	}
	m.ExportBooksTotal.WithLabelValues(result).Inc()
}

// IncExportRun counts an export run ("success" or "failure").
func (m *Metrics) IncExportRun(result string) {
	if m == nil {
		return
	}
	m.ExportRunsTotal.WithLabelValues(result).Inc()
}
