package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger    *slog.Logger
	loggerMu  sync.RWMutex
	debugMode bool
	level     = slog.LevelInfo
	out       io.Writer = os.Stdout
	closer    io.Closer
)

func init() {
	logger = newLogger(out, level)
}

// Options selects where logs go. An empty File logs to stdout.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup replaces the package logger. A previously opened log file is closed.
func Setup(opts Options) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if closer != nil {
		_ = closer.Close()
		closer = nil
	}

	out = os.Stdout
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		out, closer = lj, lj
	}

	level = ParseLevel(opts.Level)
	debugMode = level <= slog.LevelDebug
	logger = newLogger(out, level)
}

// SetOutput sends logs to w, keeping the current level. Used by tests.
func SetOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	out = w
	logger = newLogger(out, level)
}

// SetDebugMode toggles debug level logging.
func SetDebugMode(enabled bool) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	debugMode = enabled
	level = slog.LevelInfo
	if enabled {
		level = slog.LevelDebug
	}
	logger = newLogger(out, level)
}

func IsDebugMode() bool {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return debugMode
}

// Close flushes and closes the log file, if any.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	out = os.Stdout
	logger = newLogger(out, level)
	return err
}

// ParseLevel maps "debug", "warn", "error" to their slog level, anything else to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func current() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

func LogDebug(msg string, args ...any) {
	current().Debug(msg, args...)
}

func LogInfo(msg string, args ...any) {
	current().Info(msg, args...)
}

func LogWarn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func LogError(msg string, args ...any) {
	current().Error(msg, args...)
}
