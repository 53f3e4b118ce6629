// Package logger provides standardized logging utilities for the PyToJs translator
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/valdisz/PyToJs/pkg/diag"
)

// Global logger instance
var defaultLogger *slog.Logger

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
	LogFile   string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:     LevelInfo,
		Format:    "text",
		Output:    os.Stderr,
		AddSource: false,
	}
}

// ParseLevel maps a configuration string to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	var handler slog.Handler

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		output = file
	}

	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)

	return nil
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns the global logger, or slog's default before Init.
func Logger() *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger
	}
	return slog.Default()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}

// With returns a new logger with the given attributes
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// WithGroup returns a new logger with the given group
func WithGroup(name string) *slog.Logger {
	return Logger().WithGroup(name)
}

// Translator-specific logging helpers

// LogTranslatorStart logs translator startup
func LogTranslatorStart(command string, args []string) {
	Info("PyToJs translator starting", "command", command, "args", args)
}

// LogTranslatorComplete logs translator completion
func LogTranslatorComplete(success bool, duration time.Duration) {
	if success {
		Info("Translation successful", "duration", duration.String())
	} else {
		Error("Translation failed", "duration", duration.String())
	}
}

// LogPhase logs the start of a pipeline phase
func LogPhase(phase string) {
	Debug("Starting translation phase", "phase", phase)
}

// LogPhaseComplete logs the completion of a pipeline phase
func LogPhaseComplete(phase string) {
	Debug("Completed translation phase", "phase", phase)
}

// LogParsing logs parsing activity
func LogParsing(file string, nodeCount int) {
	Debug("Parsing complete", "file", file, "nodes", nodeCount)
}

// LogTranslation logs the outcome of one translation run
func LogTranslation(file string, ok bool, diagnostics int, duration time.Duration) {
	Debug("Translation complete",
		"file", file,
		"ok", ok,
		"diagnostics", diagnostics,
		"duration", duration.String())
}

// LogDiagnostic logs a translation diagnostic at the level matching its severity
func LogDiagnostic(file string, d diag.Diagnostic) {
	args := []any{
		"file", file,
		"code", int(d.Code),
		"span", d.Span.String(),
		"message", d.Message,
	}
	if d.Blocking() {
		Error("Translation error", args...)
	} else {
		Warn("Translation warning", args...)
	}
}

// LogCacheHit logs a translation served from the cache
func LogCacheHit(key string) {
	Debug("Cache hit", "key", key)
}

// LogFileProcessing logs file processing start
func LogFileProcessing(file string) {
	Info("Processing file", "file", file)
}

// LogWatchEvent logs a file system change picked up by the watcher
func LogWatchEvent(file string, op string) {
	Info("File changed", "file", file, "op", op)
}

// LogServerStart logs the HTTP server listen address
func LogServerStart(addr string) {
	Info("Server listening", "addr", addr)
}
