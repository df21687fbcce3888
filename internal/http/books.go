package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelf/internal/calibre"
)

// BooksController serves library records as JSON.
type BooksController struct {
	library  BookSource
	apiLimit int
}

func NewBooksController(library BookSource, apiLimit int) *BooksController {
	if apiLimit <= 0 {
		apiLimit = calibre.DefaultListLimit
	}
	return &BooksController{
		library:  library,
		apiLimit: apiLimit,
	}
}

// BooksJSON returns a bare JSON array of the first apiLimit records.
// GET /books.json
func (controller *BooksController) BooksJSON(c *gin.Context) {
	books, err := controller.library.SomeBooks(controller.apiLimit)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, resolveRecords(books))
}

// ListBooks returns records wrapped with their count.
// GET /api/books?limit=N
func (controller *BooksController) ListBooks(c *gin.Context) {
	limit, ok := parseLimitQuery(c, controller.apiLimit)
	if !ok {
		return
	}
	books, err := controller.library.SomeBooks(limit)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	respondBooks(c, books)
}

// GetBook returns one record.
// GET /api/books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := controller.library.Book(id)
	if err != nil {
		respondLibraryError(c, err, "get book")
		return
	}
	rec, err := book.Record()
	if err != nil {
		respondLibraryError(c, err, "resolve book")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// SearchAuthor returns records of books by authors matching the pattern.
// GET /api/authors/:query
func (controller *BooksController) SearchAuthor(c *gin.Context) {
	books, err := controller.library.SearchAuthor(c.Param("query"))
	if err != nil {
		respondInternalError(c, err, "search author")
		return
	}
	respondBooks(c, books)
}

// SearchSeries returns records of books in series matching the pattern.
// GET /api/series/:query
func (controller *BooksController) SearchSeries(c *gin.Context) {
	books, err := controller.library.SearchSeries(c.Param("query"))
	if err != nil {
		respondInternalError(c, err, "search series")
		return
	}
	respondBooks(c, books)
}

func respondBooks(c *gin.Context, books []*calibre.Book) {
	records := resolveRecords(books)
	c.JSON(http.StatusOK, BooksResponse{Books: records, Count: len(records)})
}
