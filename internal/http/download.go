package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelf/internal/utils"
)

// DownloadController serves book files from inside the library directory.
type DownloadController struct {
	library LibraryRoot
}

func NewDownloadController(library LibraryRoot) *DownloadController {
	return &DownloadController{library: library}
}

// Download serves the requested file when it resolves to a regular file
// inside the library root. Absolute paths (as found in record file_path)
// and paths relative to the root are both accepted; anything else is 404.
// GET /download/*filepath
func (dc *DownloadController) Download(c *gin.Context) {
	requested := strings.TrimPrefix(c.Param("filepath"), "/")
	requested = strings.ReplaceAll(requested, "\\", "/")

	root := dc.library.Root()
	if !filepath.IsAbs(filepath.FromSlash(requested)) {
		requested = filepath.Join(root, filepath.FromSlash(requested))
	}

	path, ok := utils.ContainedPath(root, requested)
	if !ok {
		slog.Warn("Rejected download outside library", "path", c.Param("filepath"))
		c.Status(http.StatusNotFound)
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		c.Status(http.StatusNotFound)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// downloadURL builds the percent-encoded /download link for an absolute
// file path.
func downloadURL(root, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return (&url.URL{Path: "/download/" + filepath.ToSlash(rel)}).EscapedPath()
}
