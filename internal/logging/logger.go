// Package logging writes routetrack's structured log to <config dir>/logs so failures
// can be inspected after the TUI has exited.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const fileName = "routetrack.log"

// Logger is a charmbracelet logger bound to the file it appends to.
type Logger struct {
	*log.Logger
	file *os.File
}

// New creates (or reuses) <dir>/logs/routetrack.log.
func New(dir, level string) (*Logger, error) {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, fileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l := NewWriter(f, level)
	l.file = f
	return l, nil
}

// NewWriter logs to w without owning it.
func NewWriter(w io.Writer, level string) *Logger {
	return &Logger{Logger: log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          "routetrack",
	})}
}

// Discard returns a logger that drops everything.
func Discard() *Logger { return NewWriter(io.Discard, "error") }

// Path is the log file location, or "" for writer-backed loggers.
func (l *Logger) Path() string {
	if l == nil || l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
