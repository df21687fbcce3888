package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelf/internal/calibre/calibretest"
	"github.com/mrlokans/shelf/internal/config"
)

func newTestCommand(out *bytes.Buffer) *ExportCommand {
	cmd := NewExportCommand(&config.Config{
		Analysis: config.Analysis{ImageEnabled: true},
		Export:   config.Export{Output: config.DefaultExportOutput, RemoteBaseURL: config.DefaultExportRemoteBaseURL},
	})
	cmd.out = out
	return cmd
}

func TestExportCommand_ParseFlags(t *testing.T) {
	t.Run("positional library", func(t *testing.T) {
		cmd := newTestCommand(&bytes.Buffer{})
		require.NoError(t, cmd.ParseFlags([]string{"/srv/calibre"}))
		assert.Equal(t, "/srv/calibre", cmd.LibraryPath)
		assert.Equal(t, config.DefaultExportOutput, cmd.OutputPath)
		assert.False(t, cmd.NoImages)
	})

	t.Run("flags", func(t *testing.T) {
		cmd := newTestCommand(&bytes.Buffer{})
		require.NoError(t, cmd.ParseFlags([]string{"-l", "/lib", "--output", "site/books.json", "--base-url", "https://cdn.example.com", "--no-images", "-v"}))
		assert.Equal(t, "/lib", cmd.LibraryPath)
		assert.Equal(t, "site/books.json", cmd.OutputPath)
		assert.Equal(t, "https://cdn.example.com", cmd.RemoteBaseURL)
		assert.True(t, cmd.NoImages)
		assert.True(t, cmd.Verbose)
	})

	t.Run("library is required", func(t *testing.T) {
		cmd := newTestCommand(&bytes.Buffer{})
		err := cmd.ParseFlags(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "-l/--library")
	})

	t.Run("unknown flag", func(t *testing.T) {
		cmd := newTestCommand(&bytes.Buffer{})
		assert.Error(t, cmd.ParseFlags([]string{"--frobnicate", "/lib"}))
	})
}

func TestExportCommand_Run(t *testing.T) {
	fixture := calibretest.NewLibrary(t)
	fixture.AddBook(calibretest.Book{Title: "Dune", Authors: []string{"Frank Herbert"}, Formats: []calibretest.Format{{Name: "dune", Format: "EPUB"}}})
	fixture.AddBook(calibretest.Book{Title: "Ghost", Authors: []string{"Casper"}})

	var out bytes.Buffer
	cmd := newTestCommand(&out)
	output := filepath.Join(t.TempDir(), "public", "books.json")
	require.NoError(t, cmd.ParseFlags([]string{fixture.Root, "-o", output, "--no-images"}))

	require.NoError(t, cmd.RunContext(context.Background()))

	assert.FileExists(t, output)
	assert.FileExists(t, output+".template")

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	summary := out.String()
	assert.Contains(t, summary, "(2 books)")
	assert.Contains(t, summary, "Books processed: 1")
	assert.Contains(t, summary, "Books skipped: 1")
	assert.Contains(t, summary, "File size: ")
}

func TestExportCommand_MissingLibrary(t *testing.T) {
	cmd := newTestCommand(&bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags([]string{filepath.Join(t.TempDir(), "nope")}))
	assert.Error(t, cmd.Run())
}
