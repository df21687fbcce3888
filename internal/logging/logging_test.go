package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	Setup(&buf, slog.LevelWarn)

	slog.Info("quiet message")
	slog.Warn("loud message", "book_id", 7)

	out := buf.String()
	assert.NotContains(t, out, "quiet message")
	assert.Contains(t, out, "loud message")
	assert.Contains(t, out, "7")
}
