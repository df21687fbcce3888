package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncQuery("all")
		m.IncResolved()
		m.RecordFallback("color")
		m.IncExportBook("skipped")
		m.IncExportRun("success")
	})
}

func TestMetricsCount(t *testing.T) {
	m := NewMetrics()

	m.IncQuery("search_author")
	m.IncQuery("search_author")
	m.IncResolved()
	m.RecordFallback("aspect_ratio")
	m.IncExportBook("exported")
	m.IncExportRun("failure")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.QueriesTotal.WithLabelValues("search_author")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RecordsResolved))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AnalysisFallbacks.WithLabelValues("aspect_ratio")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExportBooksTotal.WithLabelValues("exported")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExportRunsTotal.WithLabelValues("failure")))
}
