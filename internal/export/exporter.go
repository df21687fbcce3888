// Package export snapshots a whole library into a static books.json file
// plus a books.json.template copy that a later sync step fills with remote
// storage identifiers.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/mrlokans/shelf/internal/calibre"
	"github.com/mrlokans/shelf/internal/metrics"
)

const (
	DefaultOutput        = "public/books.json"
	DefaultRemoteBaseURL = "https://drive.google.com"

	templateSuffix = ".template"
)

// BookSource lists every book of a library.
type BookSource interface {
	AllBooks() ([]*calibre.Book, error)
}

// Record is one entry of books.json. The remote URLs are placeholders keyed
// by book id; the _local_* fields tell the sync step which files to upload.
type Record struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Author             string  `json:"author"`
	AuthorSort         string  `json:"author_sort"`
	Description        string  `json:"description"`
	CoverURL           string  `json:"cover_url"`
	BookURL            string  `json:"book_url"`
	CoverColor         string  `json:"cover_color"`
	CoverContrast      string  `json:"cover_contrast"`
	PageCount          int     `json:"page_count"`
	AspectRatio        float64 `json:"aspect_ratio"`
	NonlinearThickness float64 `json:"nonlinear_thickness"`
	Series             string  `json:"series"`
	SeriesIndex        float64 `json:"series_index"`
	LocalCover         *string `json:"_local_cover"`
	LocalFile          string  `json:"_local_file"`
}

// Options configures an Exporter.
type Options struct {
	// Output is the books.json path; parent directories are created.
	Output string
	// RemoteBaseURL prefixes the placeholder cover and book URLs.
	RemoteBaseURL string
	// Progress renders a progress bar on stderr when it is a terminal.
	Progress bool
}

// Result summarizes one export run.
type Result struct {
	Processed    int
	Skipped      int
	OutputFile   string
	TemplateFile string
	Bytes        int64
	Duration     time.Duration
}

type Exporter struct {
	source  BookSource
	opts    Options
	metrics *metrics.Metrics

	// progressOut is where the progress bar renders; nil disables it.
	progressOut io.Writer
}

func NewExporter(source BookSource, opts Options, m *metrics.Metrics) *Exporter {
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}
	if opts.RemoteBaseURL == "" {
		opts.RemoteBaseURL = DefaultRemoteBaseURL
	}
	opts.RemoteBaseURL = strings.TrimRight(opts.RemoteBaseURL, "/")

	e := &Exporter{source: source, opts: opts, metrics: m}
	if opts.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		e.progressOut = os.Stderr
	}
	return e
}

// Output returns the books.json path the exporter writes.
func (e *Exporter) Output() string {
	return e.opts.Output
}

// Run resolves every book and writes books.json and its template. Books
// that fail to resolve are skipped and logged; only listing or writing
// failures abort the run.
func (e *Exporter) Run(ctx context.Context) (Result, error) {
	result, err := e.run(ctx)
	if err != nil {
		e.metrics.IncExportRun("failure")
		return result, err
	}
	e.metrics.IncExportRun("success")
	return result, nil
}

func (e *Exporter) run(ctx context.Context) (Result, error) {
	start := time.Now()
	result := Result{
		OutputFile:   e.opts.Output,
		TemplateFile: e.opts.Output + templateSuffix,
	}

	books, err := e.source.AllBooks()
	if err != nil {
		return result, fmt.Errorf("failed to list books: %w", err)
	}
	slog.Info("Exporting library metadata", "books", len(books), "output", e.opts.Output)

	bar := e.newProgressBar(len(books))

	records := make([]Record, 0, len(books))
	for _, book := range books {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec, err := book.Record()
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			slog.Warn("Skipping book", "book_id", book.ID(), "error", err)
			e.metrics.IncExportBook("skipped")
			result.Skipped++
			continue
		}
		records = append(records, e.exportRecord(rec))
		e.metrics.IncExportBook("exported")
	}
	if bar != nil {
		_ = bar.Finish()
	}
	result.Processed = len(records)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return result, fmt.Errorf("failed to encode records: %w", err)
	}

	if dir := filepath.Dir(e.opts.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return result, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(result.OutputFile, data, 0644); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", result.OutputFile, err)
	}
	if err := os.WriteFile(result.TemplateFile, data, 0644); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", result.TemplateFile, err)
	}

	result.Bytes = int64(len(data))
	result.Duration = time.Since(start)
	slog.Info("Export finished",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"bytes", result.Bytes,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

func (e *Exporter) exportRecord(rec calibre.Record) Record {
	return Record{
		ID:                 rec.ID,
		Title:              rec.Title,
		Author:             rec.Author,
		AuthorSort:         rec.AuthorSort,
		Description:        rec.Description,
		CoverURL:           fmt.Sprintf("%s/thumbnail?id=COVER_%d&sz=w400", e.opts.RemoteBaseURL, rec.ID),
		BookURL:            fmt.Sprintf("%s/uc?export=download&id=BOOK_%d", e.opts.RemoteBaseURL, rec.ID),
		CoverColor:         rec.CoverColor,
		CoverContrast:      rec.CoverContrast,
		PageCount:          rec.PageCount,
		AspectRatio:        rec.AspectRatio,
		NonlinearThickness: rec.NonlinearThickness,
		Series:             rec.Series,
		SeriesIndex:        rec.SeriesIndex,
		LocalCover:         rec.Cover,
		LocalFile:          rec.FilePath,
	}
}

func (e *Exporter) newProgressBar(total int) *progressbar.ProgressBar {
	if e.progressOut == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.progressOut),
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("books"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
