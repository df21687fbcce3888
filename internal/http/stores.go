package http

import (
	"time"

	"github.com/mrlokans/shelf/internal/calibre"
	"github.com/mrlokans/shelf/internal/export"
)

// This file consolidates the interfaces used by HTTP controllers.
// *calibre.Library implements the library ones.

// BookLister returns sorted slices of books.
type BookLister interface {
	SomeBooks(limit int) ([]*calibre.Book, error)
	SearchAuthor(pattern string) ([]*calibre.Book, error)
	SearchSeries(pattern string) ([]*calibre.Book, error)
}

// BookGetter provides access to a single book by id.
type BookGetter interface {
	Book(id int64) (*calibre.Book, error)
}

// LibraryRoot exposes the directory downloads are confined to.
type LibraryRoot interface {
	Root() string
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping() error
}

// BookSource combines everything the controllers read from the library.
type BookSource interface {
	BookLister
	BookGetter
	LibraryRoot
	Pinger
}

// ExportStatus reports the state of the periodic export.
// Implemented by *scheduler.ExportScheduler.
type ExportStatus interface {
	IsRunning() bool
	GetNextRunTime() *time.Time
	LastResult() (*export.Result, error)
}
