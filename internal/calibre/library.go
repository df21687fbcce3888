// Package calibre exposes a Calibre library (metadata.db plus its book
// directory tree) as read-only book records.
//
// A Library owns the connection to metadata.db and answers listing and
// search queries with sorted slices of *Book. Each Book resolves its fields
// lazily with point lookups keyed by the book id and caches them for the
// lifetime of the instance.
package calibre

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shelf/internal/analysis"
	"github.com/mrlokans/shelf/internal/metrics"
)

const (
	// MetadataFile is the name of the Calibre database inside a library.
	MetadataFile = "metadata.db"

	// DefaultListLimit is used by SomeBooks when the limit is not positive.
	DefaultListLimit = 10

	pageCountLabel = "pagecount"
)

var (
	ErrLibraryUnavailable = errors.New("calibre library unavailable")
	ErrBookNotFound       = errors.New("book not found")
	ErrNoAuthor           = errors.New("book has no author")
	ErrNoContentFile      = errors.New("book has no content file")
)

// Library is a read-only handle to a Calibre library. It is safe for
// concurrent use; the Books it returns are not.
type Library struct {
	db       *gorm.DB
	root     string
	analyzer analysis.Analyzer
	metrics  *metrics.Metrics

	// pageCountColumn is the id of the "pagecount" custom column, or nil
	// when the library has none. Set once in Connect.
	pageCountColumn *int64
}

// Option configures a Library.
type Option func(*Library)

// WithAnalyzer sets the cover analyzer used for derived fields. Defaults
// to analysis.FallbackAnalyzer.
func WithAnalyzer(a analysis.Analyzer) Option {
	return func(l *Library) {
		if a != nil {
			l.analyzer = a
		}
	}
}

// WithMetrics enables query and resolution counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Library) {
		l.metrics = m
	}
}

// Connect opens <libraryPath>/metadata.db read-only and discovers the
// optional page count column. It fails only when the database cannot be
// opened or read.
func Connect(libraryPath string, opts ...Option) (*Library, error) {
	root, err := filepath.Abs(libraryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %v", ErrLibraryUnavailable, libraryPath, err)
	}

	dbPath := filepath.Join(root, MetadataFile)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLibraryUnavailable, err)
	}

	db, err := gorm.Open(sqlite.Open(readOnlyDSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrLibraryUnavailable, dbPath, err)
	}

	var count int64
	if err := db.Raw("SELECT count(*) FROM books").Row().Scan(&count); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrLibraryUnavailable, dbPath, err)
	}

	lib := &Library{
		db:       db,
		root:     root,
		analyzer: analysis.FallbackAnalyzer{},
	}
	for _, opt := range opts {
		opt(lib)
	}

	lib.discoverPageCountColumn()

	slog.Info("Connected to Calibre library", "path", root, "books", count, "page_counts", lib.HasPageCounts())
	return lib, nil
}

func readOnlyDSN(dbPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(dbPath), RawQuery: "mode=ro"}
	return u.String()
}

func (l *Library) discoverPageCountColumn() {
	var id int64
	err := l.db.Raw("SELECT id FROM custom_columns WHERE label = ?", pageCountLabel).Row().Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		slog.Info("Library has no pagecount column, using default page count", "default", DefaultPageCount)
	case err != nil:
		slog.Warn("Page count column lookup failed, using default page count", "error", err)
	default:
		l.pageCountColumn = &id
	}
}

// Root returns the absolute library directory.
func (l *Library) Root() string {
	return l.root
}

// HasPageCounts reports whether the library has a pagecount custom column.
func (l *Library) HasPageCounts() bool {
	return l.pageCountColumn != nil
}

// Ping checks that the database is still reachable.
func (l *Library) Ping() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the underlying database handle.
func (l *Library) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Count returns the number of books in the library.
func (l *Library) Count() (int64, error) {
	var count int64
	if err := l.db.Raw("SELECT count(*) FROM books").Row().Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

// Book returns the book with the given id, or ErrBookNotFound.
func (l *Library) Book(id int64) (*Book, error) {
	var found int64
	err := l.row("SELECT id FROM books WHERE id = ?", id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrBookNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up book %d: %w", id, err)
	}
	return newBook(l, id), nil
}

// AllBooks returns every book sorted by author sort, series and series index.
func (l *Library) AllBooks() ([]*Book, error) {
	l.metrics.IncQuery("all")
	ids, err := l.bookIDs("SELECT id FROM books ORDER BY id")
	if err != nil {
		return nil, err
	}
	return l.sortBooks(ids, byAuthor)
}

// SomeBooks returns the first limit books in storage order, sorted like
// AllBooks. A non-positive limit means DefaultListLimit.
func (l *Library) SomeBooks(limit int) ([]*Book, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	l.metrics.IncQuery("some")
	ids, err := l.bookIDs("SELECT id FROM books ORDER BY id LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	return l.sortBooks(ids, byAuthor)
}

// SearchAuthor returns books with an author whose name matches the SQL LIKE
// pattern, sorted by series and series index. The pattern is bound as a
// parameter; '%' and '_' in it act as wildcards.
func (l *Library) SearchAuthor(pattern string) ([]*Book, error) {
	l.metrics.IncQuery("search_author")
	ids, err := l.bookIDs(`
		SELECT DISTINCT books.id
		FROM books
		JOIN books_authors_link ON books.id = books_authors_link.book
		JOIN authors ON books_authors_link.author = authors.id
		WHERE authors.name LIKE ?
		ORDER BY books.id`, pattern)
	if err != nil {
		return nil, err
	}
	return l.sortBooks(ids, bySeries)
}

// SearchSeries returns books in a series whose name matches the SQL LIKE
// pattern, sorted by series and series index.
func (l *Library) SearchSeries(pattern string) ([]*Book, error) {
	l.metrics.IncQuery("search_series")
	ids, err := l.bookIDs(`
		SELECT DISTINCT books.id
		FROM books
		JOIN books_series_link ON books.id = books_series_link.book
		JOIN series ON books_series_link.series = series.id
		WHERE series.name LIKE ?
		ORDER BY books.id`, pattern)
	if err != nil {
		return nil, err
	}
	return l.sortBooks(ids, bySeries)
}

func (l *Library) row(query string, args ...any) *sql.Row {
	return l.db.Raw(query, args...).Row()
}

func (l *Library) bookIDs(query string, args ...any) ([]int64, error) {
	rows, err := l.db.Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query book ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan book id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book ids: %w", err)
	}
	return ids, nil
}

type sortOrder int

const (
	byAuthor sortOrder = iota // author sort, series, series index
	bySeries                  // series, series index
)

type sortKey struct {
	book        *Book
	authorSort  string
	series      string
	seriesIndex float64
}

func (k sortKey) less(o sortKey, order sortOrder) bool {
	if order == byAuthor && k.authorSort != o.authorSort {
		return k.authorSort < o.authorSort
	}
	if k.series != o.series {
		return k.series < o.series
	}
	if k.seriesIndex != o.seriesIndex {
		return k.seriesIndex < o.seriesIndex
	}
	return k.book.id < o.book.id
}

func (l *Library) sortBooks(ids []int64, order sortOrder) ([]*Book, error) {
	keys := make([]sortKey, 0, len(ids))
	for _, id := range ids {
		book := newBook(l, id)
		key := sortKey{book: book}

		var err error
		if order == byAuthor {
			if key.authorSort, err = book.AuthorSort(); err != nil {
				return nil, err
			}
		}
		if key.series, err = book.Series(); err != nil {
			return nil, err
		}
		if key.seriesIndex, err = book.SeriesIndex(); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].less(keys[j], order)
	})

	books := make([]*Book, len(keys))
	for i, key := range keys {
		books[i] = key.book
	}
	return books, nil
}
