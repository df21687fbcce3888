package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelf/internal/calibre"
	"github.com/mrlokans/shelf/internal/calibre/calibretest"
	"github.com/mrlokans/shelf/internal/config"
)

func testConfig(libraryPath string) *config.Config {
	return &config.Config{
		HTTP:     config.HTTP{IndexLimit: 25, APILimit: 50},
		Library:  config.Library{Path: libraryPath},
		Analysis: config.Analysis{ImageEnabled: true, CacheSize: 16},
		Export:   config.Export{Output: filepath.Join(libraryPath, "out", "books.json")},
		Metrics:  config.Metrics{Enabled: true},
	}
}

func TestBuild(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fixture := calibretest.NewLibrary(t)
	fixture.AddBook(calibretest.Book{Title: "Dune", Authors: []string{"Frank Herbert"}, Formats: []calibretest.Format{{Name: "dune", Format: "EPUB"}}})

	components, err := Build(testConfig(fixture.Root), "test")
	require.NoError(t, err)
	t.Cleanup(func() { components.Library.Close() })

	require.NotNil(t, components.Metrics)

	w := httptest.NewRecorder()
	components.Router.ServeHTTP(w, httptest.NewRequest("GET", "/books.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune")

	w = httptest.NewRecorder()
	components.Router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"export": "disabled"`)

	result, err := components.Exporter.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.FileExists(t, result.OutputFile)
}

func TestBuild_MetricsDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fixture := calibretest.NewLibrary(t)
	cfg := testConfig(fixture.Root)
	cfg.Metrics.Enabled = false
	cfg.Analysis.ImageEnabled = false
	cfg.Analysis.CacheSize = 0

	components, err := Build(cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { components.Library.Close() })

	assert.Nil(t, components.Metrics)

	w := httptest.NewRecorder()
	components.Router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuild_LibraryErrors(t *testing.T) {
	t.Run("no path", func(t *testing.T) {
		_, err := Build(testConfig(""), "test")
		assert.ErrorIs(t, err, calibre.ErrLibraryUnavailable)
	})

	t.Run("missing library", func(t *testing.T) {
		_, err := Build(testConfig(filepath.Join(t.TempDir(), "missing")), "test")
		assert.ErrorIs(t, err, calibre.ErrLibraryUnavailable)
	})
}

func TestBuild_InvalidScheduleFailsOnStart(t *testing.T) {
	fixture := calibretest.NewLibrary(t)
	cfg := testConfig(fixture.Root)
	cfg.Export.Schedule = "whenever"

	components, err := Build(cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { components.Library.Close() })

	assert.Error(t, components.Scheduler.Start(context.Background()))
}

func TestBuild_HealthReportsScheduledExport(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fixture := calibretest.NewLibrary(t)
	cfg := testConfig(fixture.Root)
	cfg.Export.Schedule = "0 0 * * *"

	components, err := Build(cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { components.Library.Close() })

	require.NoError(t, components.Scheduler.Start(context.Background()))
	t.Cleanup(components.Scheduler.Stop)

	w := httptest.NewRecorder()
	components.Router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scheduled, next run ")
	assert.Contains(t, w.Body.String(), "no run yet")
}
