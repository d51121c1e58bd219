package logging

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds a JSON slog logger writing to w, along with the LevelVar
// that controls its level at runtime (POST /api/loglevel).
// Unknown level strings fall back to info.
func NewLogger(w io.Writer, level string) (*slog.Logger, *slog.LevelVar) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(ParseLevel(level))

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: levelVar,
	}))
	return logger, levelVar
}

// ParseLevel maps a config string onto a slog level. Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
