package http

import "github.com/mrlokans/shelf/internal/metrics"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Library BookSource

	// Periodic export state reported by /health
	Export ExportStatus

	// Page sizes for "/" and "/books.json"
	IndexLimit int
	APILimit   int

	// Metrics exposes /metrics when non-nil
	Metrics *metrics.Metrics

	// Application info
	Version string
}
