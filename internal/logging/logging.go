// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"

	"github.com/lepinkainen/humanlog"
)

// Setup makes a human-readable handler writing to w the default logger.
func Setup(w io.Writer, level slog.Level) {
	handler := humanlog.NewHandler(w, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
