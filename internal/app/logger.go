package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/pocamarket-backend/internal/config"
)

const serviceName = "pocamarket-backend"

// NewLogger creates the process logger writing to stderr and sets it as the
// slog default.
//
// Format "json" produces structured JSON output; anything else produces text
// with source locations. Level is one of debug, info, warn, error
// (case-insensitive) and defaults to info. Every record carries the service
// name and build version.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	text := !strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: text,
	}

	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("service", serviceName),
		slog.String("version", Version),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
