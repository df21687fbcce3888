package http

import (
	"os"

	"github.com/gin-gonic/gin"
)

// CoversController handles book cover requests.
type CoversController struct {
	library BookGetter
}

// NewCoversController creates a new CoversController.
func NewCoversController(library BookGetter) *CoversController {
	return &CoversController{
		library: library,
	}
}

// GetCover serves the cover.jpg stored next to the book.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.library.Book(id)
	if err != nil {
		respondLibraryError(c, err, "get cover")
		return
	}

	cover, hasCover, err := book.Cover()
	if err != nil {
		respondLibraryError(c, err, "resolve cover")
		return
	}
	if !hasCover {
		respondNotFound(c, "cover")
		return
	}
	if _, err := os.Stat(cover); err != nil {
		respondNotFound(c, "cover")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(cover)
}
