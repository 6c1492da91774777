package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Dev gets human-readable text at debug level,
// everything else JSON at info so log shippers stay happy.
func New(environment string) *slog.Logger {
	if environment == "dev" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
