// Package logging configures the process-wide structured logger.
// Human-facing progress goes through the output package; slog carries
// machine-parseable diagnostics (attempt numbers, failure reasons,
// cache clears) for CI log scraping.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default slog logger. Verbose enables debug level.
// Pass nil to write to stderr.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
