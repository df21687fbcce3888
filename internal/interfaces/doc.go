// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Library Access
//
//   - http.BookSource: listing, search, single-book lookup, root and ping
//     (internal/http/stores.go), implemented by *calibre.Library
//   - export.BookSource: every book of the library (internal/export/exporter.go)
//
// ## Cover Analysis
//
//   - analysis.Analyzer: dominant color, contrast color and aspect ratio of a
//     cover (internal/analysis/analyzer.go)
//   - analysis.FallbackRecorder: counts analyses that degraded to defaults
//
// ## Background Work
//
//   - scheduler.Runner: one export run, driven by the cron scheduler
//   - http.ExportStatus: scheduler state reported by /health, implemented by
//     *scheduler.ExportScheduler
//
// # Adding a New Analyzer
//
//  1. Implement Analyzer in internal/analysis/. Methods never fail; return
//     the package defaults when a cover cannot be inspected:
//
//     type ThumbnailAnalyzer struct{}
//
//     func (ThumbnailAnalyzer) DominantColor(coverPath string) string
//     func (ThumbnailAnalyzer) ContrastColor(coverColor string) string
//     func (ThumbnailAnalyzer) AspectRatio(coverPath string) float64
//
//  2. Choose it in analysis.Select and wrap it with NewCachedAnalyzer in
//     entrypoint.go
//
// # Adding a New Route
//
//  1. Add a controller in internal/http/ that depends on the narrowest
//     interface from stores.go
//
//  2. Register route in router.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
