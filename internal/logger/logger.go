// Package logger provides a dual-output logger that writes to both stderr
// and a timestamped log file inside the generated app's state directory.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sailsgen/sails-new/internal/config"
)

// Logger writes to both stderr and a log file simultaneously.
type Logger struct {
	w    io.Writer
	file *os.File
}

// Dir returns <appDir>/.sails-new/logs.
func Dir(appDir string) string {
	return filepath.Join(appDir, config.StateDir, "logs")
}

// New creates a logger that writes to stderr and to
// <appDir>/.sails-new/logs/generate-<ts>.log.
func New(appDir string) (*Logger, error) {
	return newWith(appDir, os.Stderr)
}

// NewQuiet is New without the stderr copy, for runs that render their own
// progress on the terminal.
func NewQuiet(appDir string) (*Logger, error) {
	return newWith(appDir, nil)
}

func newWith(appDir string, console io.Writer) (*Logger, error) {
	logsDir := Dir(appDir)
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	ts := time.Now().Format("20060102-150405")
	logPath := filepath.Join(logsDir, fmt.Sprintf("generate-%s.log", ts))

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	var w io.Writer = f
	if console != nil {
		w = io.MultiWriter(console, f)
	}
	return &Logger{w: w, file: f}, nil
}

// NewDiscard returns a logger that drops everything (dry runs, tests).
func NewDiscard() *Logger {
	return &Logger{w: io.Discard}
}

// LogPath returns the path of the current log file, or empty string if discarded.
func (l *Logger) LogPath() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Write implements io.Writer by forwarding to the underlying writer.
func (l *Logger) Write(p []byte) (n int, err error) {
	return l.w.Write(p)
}

// Printf writes a formatted line to the log.
func (l *Logger) Printf(format string, args ...any) {
	fmt.Fprintf(l.w, format+"\n", args...)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LatestLogPath returns the path to the most recent generation log of appDir.
// Returns "" if no logs exist.
func LatestLogPath(appDir string) string {
	logsDir := Dir(appDir)
	entries, err := os.ReadDir(logsDir)
	if err != nil || len(entries) == 0 {
		return ""
	}
	// ReadDir returns sorted by name; generate-<ts> logs sort chronologically.
	latest := ""
	for _, e := range entries {
		if !e.IsDir() {
			latest = filepath.Join(logsDir, e.Name())
		}
	}
	return latest
}
