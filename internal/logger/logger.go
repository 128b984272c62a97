package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	// Logger is the global slog logger instance. It logs JSON at info level until Init is called.
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Init initializes the global logger at the given level.
// An empty level falls back to LOG_LEVEL, then info.
func Init(levelName string) {
	InitWriter(os.Stdout, levelName)
}

// InitWriter is Init with an explicit destination
func InitWriter(w io.Writer, levelName string) {
	if levelName == "" {
		levelName = os.Getenv("LOG_LEVEL")
	}
	if levelName == "" {
		levelName = "info"
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(levelName)})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	Logger.Debug("Logger initialized", "level", levelName)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
