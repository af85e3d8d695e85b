package logging

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger configures the default slog logger from LOG_LEVEL and
// LOG_FORMAT. The text format is the default for local development; deployed
// instances should set LOG_FORMAT=json.
func InitLogger() {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		format = "text"
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))

	slog.Info("logger initialized",
		"level", level.String(),
		"format", format,
	)
}

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
