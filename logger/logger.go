// Package logger provides structured logging setup for RouteForge.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/Strob0t/RouteForge/config"
)

// New creates a *slog.Logger from the given Logging config.
// Output is JSON to stdout with a "service" attribute on every record. In
// async mode records are handed to a background drainer and the returned
// Closer must be called to flush them; in sync mode the Closer is a no-op.
func New(cfg config.Logging) (*slog.Logger, Closer) {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	closer := Closer(nopCloser{})
	if cfg.Async {
		async := newAsyncHandler(handler, cfg.Buffer)
		handler, closer = async, async
	}

	return slog.New(handler).With("service", cfg.Service), closer
}

// Setup installs the configured logger as the process default and returns
// its Closer.
func Setup(cfg config.Logging) Closer {
	log, closer := New(cfg)
	slog.SetDefault(log)
	return closer
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
