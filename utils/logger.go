package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Logger provides leveled logging throughout the application. Messages are
// printf-style and prefixed with a component tag, e.g. "[assembler] ...".
type Logger struct {
	internal *slog.Logger
	level    *slog.LevelVar
}

// NewLogger creates a Logger writing to stderr at the given level
// (debug, info, warn or error; anything else means info).
func NewLogger(level string) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a Logger writing to w.
func NewLoggerTo(w io.Writer, level string) *Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLevel(level))

	handler := tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    !isTerminal(w),
	})

	return &Logger{internal: slog.New(handler), level: lvl}
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level string) {
	l.level.Set(ParseLevel(level))
}

func (l *Logger) Info(format string, args ...any) {
	l.internal.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.internal.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.internal.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.internal.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.internal.Debug(fmt.Sprintf(format, args...))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
