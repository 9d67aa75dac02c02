// Package logging configures the structured logger used for reconciliation
// diagnostics (skipped records, per-page progress). Output goes to stderr so
// the formatted changelog on stdout stays pipeable.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// ParseLevel converts a textual log level into a slog.Level.
// Unknown values fall back to warn so diagnostics stay quiet by default.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New constructs a slog.Logger with a tint handler writing to w at the
// given level. A nil writer defaults to stderr.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
}

// Setup builds the process logger. Verbose forces debug level; otherwise
// the RELNOTE_LOG_LEVEL environment variable decides, defaulting to warn.
func Setup(verbose bool) *slog.Logger {
	level := ParseLevel(os.Getenv("RELNOTE_LOG_LEVEL"))
	if verbose {
		level = slog.LevelDebug
	}
	return New(os.Stderr, level)
}
