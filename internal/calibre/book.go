package calibre

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mrlokans/shelf/internal/analysis"
)

const (
	// DefaultPageCount is used when a library or book has no page count.
	DefaultPageCount = 300

	coverFilename = "cover.jpg"
	epubFormat    = "EPUB"
)

// Book is one library entry. Every field is looked up on first access and
// cached for the lifetime of the instance; failed lookups are not cached.
// A Book is not safe for concurrent use.
type Book struct {
	id  int64
	lib *Library

	title       *string
	author      *string
	authorSort  *string
	series      *string
	seriesIndex *float64
	description *string
	bookPath    *string
	cover       *string // "" when the book has no cover
	filePath    *string
	pageCount   *int

	coverColor    *string
	coverContrast *string
	aspectRatio   *float64
	thickness     *float64
}

func newBook(lib *Library, id int64) *Book {
	return &Book{id: id, lib: lib}
}

// ID returns the Calibre book id.
func (b *Book) ID() int64 {
	return b.id
}

// Title returns the book title. A missing books row yields ErrBookNotFound.
func (b *Book) Title() (string, error) {
	if b.title != nil {
		return *b.title, nil
	}
	var title string
	err := b.lib.row("SELECT title FROM books WHERE id = ?", b.id).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %d", ErrBookNotFound, b.id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve title of book %d: %w", b.id, err)
	}
	b.title = &title
	return title, nil
}

// Author returns the first linked author. Books may have several authors;
// only the earliest link is surfaced.
func (b *Book) Author() (string, error) {
	if b.author != nil {
		return *b.author, nil
	}
	var author string
	err := b.lib.row(`
		SELECT authors.name
		FROM authors
		JOIN books_authors_link ON authors.id = books_authors_link.author
		WHERE books_authors_link.book = ?
		ORDER BY books_authors_link.id
		LIMIT 1`, b.id).Scan(&author)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %d", ErrNoAuthor, b.id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve author of book %d: %w", b.id, err)
	}
	b.author = &author
	return author, nil
}

// AuthorSort returns the sort key Calibre keeps for the authors, or "".
func (b *Book) AuthorSort() (string, error) {
	if b.authorSort != nil {
		return *b.authorSort, nil
	}
	value, err := b.optionalString("SELECT author_sort FROM books WHERE id = ?")
	if err != nil {
		return "", fmt.Errorf("failed to resolve author sort of book %d: %w", b.id, err)
	}
	b.authorSort = &value
	return value, nil
}

// Series returns the series name, or "" when the book is in no series.
func (b *Book) Series() (string, error) {
	if b.series != nil {
		return *b.series, nil
	}
	value, err := b.optionalString(`
		SELECT series.name
		FROM series
		JOIN books_series_link ON series.id = books_series_link.series
		WHERE books_series_link.book = ?`)
	if err != nil {
		return "", fmt.Errorf("failed to resolve series of book %d: %w", b.id, err)
	}
	b.series = &value
	return value, nil
}

// SeriesIndex returns the position within the series. It is always 0 for a
// book without a series, whatever Calibre stored.
func (b *Book) SeriesIndex() (float64, error) {
	if b.seriesIndex != nil {
		return *b.seriesIndex, nil
	}
	series, err := b.Series()
	if err != nil {
		return 0, err
	}

	var index float64
	if series != "" {
		var value sql.NullFloat64
		err := b.lib.row("SELECT series_index FROM books WHERE id = ?", b.id).Scan(&value)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to resolve series index of book %d: %w", b.id, err)
		}
		index = value.Float64
	}
	b.seriesIndex = &index
	return index, nil
}

// SeriesIndexDisplay formats the series index without a trailing ".0"
// for whole numbers: 3 -> "3", 2.5 -> "2.5".
func (b *Book) SeriesIndexDisplay() (string, error) {
	index, err := b.SeriesIndex()
	if err != nil {
		return "", err
	}
	return FormatSeriesIndex(index), nil
}

// FormatSeriesIndex renders a series index in its shortest form.
func FormatSeriesIndex(index float64) string {
	return strconv.FormatFloat(index, 'f', -1, 64)
}

// Description returns the book comments (usually HTML), or "".
func (b *Book) Description() (string, error) {
	if b.description != nil {
		return *b.description, nil
	}
	value, err := b.optionalString("SELECT text FROM comments WHERE book = ?")
	if err != nil {
		return "", fmt.Errorf("failed to resolve description of book %d: %w", b.id, err)
	}
	b.description = &value
	return value, nil
}

// Path returns the book directory relative to the library root.
func (b *Book) Path() (string, error) {
	if b.bookPath != nil {
		return *b.bookPath, nil
	}
	var path string
	err := b.lib.row("SELECT path FROM books WHERE id = ?", b.id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %d", ErrBookNotFound, b.id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve path of book %d: %w", b.id, err)
	}
	b.bookPath = &path
	return path, nil
}

// Cover returns the absolute path of cover.jpg and true, or "" and false
// when Calibre has no cover for the book.
func (b *Book) Cover() (string, bool, error) {
	if b.cover != nil {
		return *b.cover, *b.cover != "", nil
	}
	var hasCover sql.NullBool
	err := b.lib.row("SELECT has_cover FROM books WHERE id = ?", b.id).Scan(&hasCover)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("failed to resolve cover of book %d: %w", b.id, err)
	}

	cover := ""
	if hasCover.Bool {
		dir, err := b.Path()
		if err != nil {
			return "", false, err
		}
		cover = filepath.Join(b.lib.root, dir, coverFilename)
	}
	b.cover = &cover
	return cover, cover != "", nil
}

// FilePath returns the absolute path of the book's content file. An EPUB
// is preferred; otherwise the first stored format is used with its
// extension lower-cased. A book without files yields ErrNoContentFile.
func (b *Book) FilePath() (string, error) {
	if b.filePath != nil {
		return *b.filePath, nil
	}

	rows, err := b.lib.db.Raw("SELECT name, format FROM data WHERE book = ? ORDER BY id", b.id).Rows()
	if err != nil {
		return "", fmt.Errorf("failed to query files of book %d: %w", b.id, err)
	}
	defer rows.Close()

	type bookFile struct{ name, format string }
	var files []bookFile
	for rows.Next() {
		var f bookFile
		if err := rows.Scan(&f.name, &f.format); err != nil {
			return "", fmt.Errorf("failed to scan file of book %d: %w", b.id, err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating files of book %d: %w", b.id, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %d", ErrNoContentFile, b.id)
	}

	chosen := files[0]
	for _, f := range files {
		if f.format == epubFormat {
			chosen = f
			break
		}
	}

	dir, err := b.Path()
	if err != nil {
		return "", err
	}
	path := filepath.Join(b.lib.root, dir, chosen.name+"."+strings.ToLower(chosen.format))
	b.filePath = &path
	return path, nil
}

// PageCount returns the value of the pagecount custom column, or
// DefaultPageCount when the column, the value or the lookup is missing.
func (b *Book) PageCount() int {
	if b.pageCount != nil {
		return *b.pageCount
	}

	count := DefaultPageCount
	if column := b.lib.pageCountColumn; column != nil {
		var value sql.NullFloat64
		query := fmt.Sprintf("SELECT value FROM custom_column_%d WHERE book = ?", *column)
		err := b.lib.row(query, b.id).Scan(&value)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			slog.Warn("Page count lookup failed, using default", "book_id", b.id, "error", err)
		case value.Valid && value.Float64 >= 0:
			count = int(math.Round(value.Float64))
		}
	}
	b.pageCount = &count
	return count
}

// CoverColor returns the dominant spine color of the cover as "#rrggbb".
func (b *Book) CoverColor() string {
	if b.coverColor != nil {
		return *b.coverColor
	}
	color := b.lib.analyzer.DominantColor(b.coverForAnalysis())
	b.coverColor = &color
	return color
}

// CoverContrast returns a text color readable on top of CoverColor.
func (b *Book) CoverContrast() string {
	if b.coverContrast != nil {
		return *b.coverContrast
	}
	contrast := b.lib.analyzer.ContrastColor(b.CoverColor())
	b.coverContrast = &contrast
	return contrast
}

// AspectRatio returns width/height of the cover image.
func (b *Book) AspectRatio() float64 {
	if b.aspectRatio != nil {
		return *b.aspectRatio
	}
	ratio := b.lib.analyzer.AspectRatio(b.coverForAnalysis())
	b.aspectRatio = &ratio
	return ratio
}

// NonlinearThickness returns the spine thickness derived from PageCount.
func (b *Book) NonlinearThickness() float64 {
	if b.thickness != nil {
		return *b.thickness
	}
	thickness := analysis.Thickness(b.PageCount())
	b.thickness = &thickness
	return thickness
}

// coverForAnalysis returns the cover path, or "" when there is none or it
// cannot be resolved; analyzers treat "" as a missing cover.
func (b *Book) coverForAnalysis() string {
	cover, _, err := b.Cover()
	if err != nil {
		slog.Warn("Cover lookup failed, using defaults", "book_id", b.id, "error", err)
		return ""
	}
	return cover
}

func (b *Book) optionalString(query string) (string, error) {
	var value sql.NullString
	err := b.lib.row(query, b.id).Scan(&value)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	return value.String, nil
}
