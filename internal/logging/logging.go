// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// New returns a logger writing JSON lines, or human-readable text when
// format is "text".
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	if format == "text" {
		handler := charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			Formatter:       charmlog.TextFormatter,
			ReportTimestamp: true,
		})
		return slog.New(handler)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
