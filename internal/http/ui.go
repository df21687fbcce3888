package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelf/internal/calibre"
)

//go:embed templates/*.html
var templatesFS embed.FS

// spineHeight is the rendered height of a spine in pixels; widths scale
// with the record's nonlinear thickness.
const spineHeight = 220

// BookView is a record plus the links the shelf page needs.
type BookView struct {
	calibre.Record
	CoverURL    string
	DownloadURL string
	AuthorURL   string
	SeriesURL   string
}

// UIController renders the bookshelf HTML pages.
type UIController struct {
	library    BookSource
	indexLimit int
}

func NewUIController(library BookSource, indexLimit int) *UIController {
	if indexLimit <= 0 {
		indexLimit = calibre.DefaultListLimit
	}
	return &UIController{
		library:    library,
		indexLimit: indexLimit,
	}
}

// loadTemplates parses the embedded page templates.
func loadTemplates() *template.Template {
	funcMap := template.FuncMap{
		"spineStyle": spineStyle,
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"))
}

// spineStyle renders the inline CSS of one book spine.
func spineStyle(b BookView) template.CSS {
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s; width: %.1fpx; height: %dpx;",
		b.CoverColor, b.CoverContrast, b.NonlinearThickness, spineHeight))
}

// searchURL links to a search page with query as a single escaped segment.
func searchURL(prefix, query string) string {
	return prefix + url.PathEscape(query)
}

// Index renders the first indexLimit books.
// GET /
func (controller *UIController) Index(c *gin.Context) {
	books, err := controller.library.SomeBooks(controller.indexLimit)
	controller.render(c, "Library", books, err)
}

// Author renders books by authors matching the pattern.
// GET /author/:query
func (controller *UIController) Author(c *gin.Context) {
	query := c.Param("query")
	books, err := controller.library.SearchAuthor(query)
	controller.render(c, "Author: "+query, books, err)
}

// Series renders books in series matching the pattern.
// GET /series/:query
func (controller *UIController) Series(c *gin.Context) {
	query := c.Param("query")
	books, err := controller.library.SearchSeries(query)
	controller.render(c, "Series: "+query, books, err)
}

func (controller *UIController) render(c *gin.Context, heading string, books []*calibre.Book, err error) {
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	root := controller.library.Root()
	records := resolveRecords(books)
	views := make([]BookView, 0, len(records))
	for _, rec := range records {
		view := BookView{
			Record:      rec,
			DownloadURL: downloadURL(root, rec.FilePath),
			AuthorURL:   searchURL("/author/", rec.Author),
		}
		if rec.Series != "" {
			view.SeriesURL = searchURL("/series/", rec.Series)
		}
		if rec.Cover != nil {
			view.CoverURL = fmt.Sprintf("/api/books/%d/cover", rec.ID)
		}
		views = append(views, view)
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"Heading":    heading,
		"Books":      views,
		"TotalBooks": len(views),
	})
}
