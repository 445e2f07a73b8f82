// Package logger builds the slog logger used for diagnostics.
//
// Diagnostics go to stderr so they never mix with review output on stdout.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds the logger configuration.
type Config struct {
	Level  string
	Format string
	// Verbose forces debug level regardless of Level.
	Verbose bool
}

// NewLogger initializes a new slog logger based on the provided
// configuration. A nil output means stderr. Unknown levels fall back to
// warn so routine runs stay quiet.
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := slog.LevelWarn
	if cfg.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err == nil {
			level = l
		}
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
