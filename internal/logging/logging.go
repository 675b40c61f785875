// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"

	"github.com/dyluth/bridge/internal/config"
)

// Setup installs the default slog logger according to the log section
// of the configuration. Unrecognised values were rejected at config
// validation, so only the documented levels and formats arrive here.
func Setup(cfg *config.BridgeConfig) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("instance", cfg.Instance)
	slog.SetDefault(logger)
}

func parseLevel(level string) slog.Level {
	switch level {
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
