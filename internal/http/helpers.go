package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelf/internal/calibre"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BooksResponse wraps a list of records with its length.
type BooksResponse struct {
	Books []calibre.Record `json:"books"`
	Count int              `json:"count"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	slog.Error("Internal error", "context", context, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondLibraryError maps library errors to 404 or 500.
func respondLibraryError(c *gin.Context, err error, context string) {
	if errors.Is(err, calibre.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	respondInternalError(c, err, context)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates a positive book id from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}

// parseLimitQuery reads an optional positive "limit" query parameter,
// falling back to def when absent.
func parseLimitQuery(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		respondBadRequest(c, "invalid limit")
		return 0, false
	}
	return limit, true
}

// --- Record Resolution ---

// resolveRecords turns books into records, leaving out (and logging) the
// ones that cannot be resolved so one broken entry never fails a page.
func resolveRecords(books []*calibre.Book) []calibre.Record {
	return calibre.Records(books, func(book *calibre.Book, err error) {
		slog.Warn("Skipping unresolvable book", "book_id", book.ID(), "error", err)
	})
}
