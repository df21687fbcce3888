package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/shelf/internal/analysis"
	"github.com/mrlokans/shelf/internal/calibre"
	"github.com/mrlokans/shelf/internal/export"
	"github.com/mrlokans/shelf/internal/http"
	"github.com/mrlokans/shelf/internal/metrics"
	"github.com/mrlokans/shelf/internal/scheduler"
)

// =============================================================================
// Library Access
// =============================================================================

// BookSource implementations
var _ http.BookSource = (*calibre.Library)(nil)
var _ export.BookSource = (*calibre.Library)(nil)

// =============================================================================
// Cover Analysis
// =============================================================================

// Analyzer implementations
var _ analysis.Analyzer = (*analysis.ImageAnalyzer)(nil)
var _ analysis.Analyzer = analysis.FallbackAnalyzer{}
var _ analysis.Analyzer = (*analysis.CachedAnalyzer)(nil)

// FallbackRecorder implementations
var _ analysis.FallbackRecorder = (*metrics.Metrics)(nil)

// =============================================================================
// Background Work
// =============================================================================

// Runner implementations
var _ scheduler.Runner = (*export.Exporter)(nil)

// ExportStatus implementations
var _ http.ExportStatus = (*scheduler.ExportScheduler)(nil)
