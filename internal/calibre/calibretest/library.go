// Package calibretest builds throwaway Calibre libraries for tests and
// demos: a metadata.db with the subset of the Calibre schema the adapter
// reads, plus book directories with covers and content files.
package calibretest

import (
	"database/sql"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT 'Unknown',
		sort TEXT,
		author_sort TEXT,
		series_index REAL NOT NULL DEFAULT 1.0,
		path TEXT NOT NULL DEFAULT '',
		has_cover BOOL DEFAULT 0
	);
	CREATE TABLE authors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL COLLATE NOCASE,
		sort TEXT COLLATE NOCASE,
		UNIQUE(name)
	);
	CREATE TABLE books_authors_link (
		id INTEGER PRIMARY KEY,
		book INTEGER NOT NULL,
		author INTEGER NOT NULL,
		UNIQUE(book, author)
	);
	CREATE TABLE series (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL COLLATE NOCASE,
		sort TEXT COLLATE NOCASE,
		UNIQUE(name)
	);
	CREATE TABLE books_series_link (
		id INTEGER PRIMARY KEY,
		book INTEGER NOT NULL,
		series INTEGER NOT NULL,
		UNIQUE(book)
	);
	CREATE TABLE comments (
		id INTEGER PRIMARY KEY,
		book INTEGER NOT NULL,
		text TEXT NOT NULL COLLATE NOCASE,
		UNIQUE(book)
	);
	CREATE TABLE data (
		id INTEGER PRIMARY KEY,
		book INTEGER NOT NULL,
		format TEXT NOT NULL COLLATE NOCASE,
		uncompressed_size INTEGER NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		UNIQUE(book, format)
	);
	CREATE TABLE custom_columns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL,
		name TEXT NOT NULL,
		datatype TEXT NOT NULL,
		UNIQUE(label)
	);
`

// TB is the part of testing.TB the builder needs. *testing.T satisfies it.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
	TempDir() string
	Cleanup(func())
}

// Format is one stored file of a book, e.g. {"novel", "EPUB"}.
type Format struct {
	Name   string
	Format string
}

// Book describes a library entry to create. Zero values mean "absent".
type Book struct {
	Title       string
	Authors     []string
	AuthorSort  string
	Series      string
	SeriesIndex float64
	Description string
	Formats     []Format
	PageCount   int

	// Cover, when set, is written PNG-encoded to <path>/cover.jpg and the
	// book is flagged has_cover.
	Cover image.Image
	// Path defaults to "<first author>/<title> (<id>)".
	Path string
}

// Library is a Calibre library under construction in a temp directory.
type Library struct {
	t    TB
	Root string
	db   *sql.DB

	pageCountColumn int64
}

// NewLibrary creates an empty library in t.TempDir().
func NewLibrary(t TB) *Library {
	t.Helper()

	root := t.TempDir()
	db, err := sql.Open("sqlite3", filepath.Join(root, "metadata.db"))
	if err != nil {
		t.Fatalf("Failed to create library database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create library schema: %v", err)
	}

	// An unrelated custom column, so discovery has to match on the label.
	if _, err := db.Exec(`INSERT INTO custom_columns (label, name, datatype) VALUES ('genre', 'Genre', 'text')`); err != nil {
		t.Fatalf("Failed to create custom column: %v", err)
	}

	return &Library{t: t, Root: root, db: db}
}

// EnablePageCounts adds the "pagecount" custom column and its value table.
func (l *Library) EnablePageCounts() *Library {
	l.t.Helper()

	res, err := l.db.Exec(`INSERT INTO custom_columns (label, name, datatype) VALUES ('pagecount', 'Pages', 'int')`)
	if err != nil {
		l.t.Fatalf("Failed to create pagecount column: %v", err)
	}
	id, _ := res.LastInsertId()
	l.pageCountColumn = id

	table := fmt.Sprintf(`CREATE TABLE custom_column_%d (id INTEGER PRIMARY KEY, book INTEGER, value INTEGER NOT NULL, UNIQUE(book))`, id)
	if _, err := l.db.Exec(table); err != nil {
		l.t.Fatalf("Failed to create pagecount table: %v", err)
	}
	return l
}

// AddBook inserts a book with its links, comments, files and cover and
// returns its id.
func (l *Library) AddBook(b Book) int64 {
	l.t.Helper()

	res, err := l.db.Exec(`INSERT INTO books (title, sort, author_sort, series_index, has_cover) VALUES (?, ?, ?, ?, ?)`,
		b.Title, b.Title, nullIfEmpty(b.AuthorSort), b.SeriesIndex, b.Cover != nil)
	if err != nil {
		l.t.Fatalf("Failed to insert book: %v", err)
	}
	id, _ := res.LastInsertId()

	path := b.Path
	if path == "" {
		author := "Unknown"
		if len(b.Authors) > 0 {
			author = b.Authors[0]
		}
		path = fmt.Sprintf("%s/%s (%d)", author, b.Title, id)
	}
	l.exec(`UPDATE books SET path = ? WHERE id = ?`, path, id)

	for _, name := range b.Authors {
		l.exec(`INSERT OR IGNORE INTO authors (name, sort) VALUES (?, ?)`, name, name)
		l.exec(`INSERT INTO books_authors_link (book, author) SELECT ?, id FROM authors WHERE name = ?`, id, name)
	}

	if b.Series != "" {
		l.exec(`INSERT OR IGNORE INTO series (name, sort) VALUES (?, ?)`, b.Series, b.Series)
		l.exec(`INSERT INTO books_series_link (book, series) SELECT ?, id FROM series WHERE name = ?`, id, b.Series)
	}

	if b.Description != "" {
		l.exec(`INSERT INTO comments (book, text) VALUES (?, ?)`, id, b.Description)
	}

	dir := filepath.Join(l.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(dir, 0755); err != nil {
		l.t.Fatalf("Failed to create book directory: %v", err)
	}

	for _, f := range b.Formats {
		l.exec(`INSERT INTO data (book, format, name) VALUES (?, ?, ?)`, id, f.Format, f.Name)
		file := filepath.Join(dir, f.Name+"."+strings.ToLower(f.Format))
		if err := os.WriteFile(file, []byte("content of "+b.Title), 0644); err != nil {
			l.t.Fatalf("Failed to write book file: %v", err)
		}
	}

	if b.Cover != nil {
		writeCover(l.t, filepath.Join(dir, "cover.jpg"), b.Cover)
	}

	if b.PageCount > 0 && l.pageCountColumn != 0 {
		l.exec(fmt.Sprintf(`INSERT INTO custom_column_%d (book, value) VALUES (?, ?)`, l.pageCountColumn), id, b.PageCount)
	}

	return id
}

// Exec runs a raw statement against metadata.db, for tests that need to
// bend the schema.
func (l *Library) Exec(query string, args ...any) {
	l.t.Helper()
	l.exec(query, args...)
}

func (l *Library) exec(query string, args ...any) {
	l.t.Helper()
	if _, err := l.db.Exec(query, args...); err != nil {
		l.t.Fatalf("Failed to execute %q: %v", query, err)
	}
}

// SolidCover returns a w x h cover whose left spine columns are spine and
// the rest body.
func SolidCover(w, h int, spine, body color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < 5 {
				img.SetNRGBA(x, y, spine)
			} else {
				img.SetNRGBA(x, y, body)
			}
		}
	}
	return img
}

func writeCover(t TB, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create cover: %v", err)
	}
	defer f.Close()
	// PNG keeps colors exact; decoders sniff the format, not the extension.
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		t.Fatalf("Failed to encode cover: %v", err)
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
