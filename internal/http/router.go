package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.SetHTMLTemplate(loadTemplates())

	uiController := NewUIController(cfg.Library, cfg.IndexLimit)
	router.GET("/", uiController.Index)
	router.GET("/author/:query", uiController.Author)
	router.GET("/series/:query", uiController.Series)

	booksController := NewBooksController(cfg.Library, cfg.APILimit)
	router.GET("/books.json", booksController.BooksJSON)

	api := router.Group("/api")
	{
		api.GET("/books", booksController.ListBooks)
		api.GET("/books/:id", booksController.GetBook)
		api.GET("/authors/:query", booksController.SearchAuthor)
		api.GET("/series/:query", booksController.SearchSeries)

		coversController := NewCoversController(cfg.Library)
		api.GET("/books/:id/cover", coversController.GetCover)
	}

	downloadController := NewDownloadController(cfg.Library)
	router.GET("/download/*filepath", downloadController.Download)

	healthController := NewHealthController(cfg.Library, cfg.Export, cfg.Version)
	router.GET("/health", healthController.Status)

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	return router
}
