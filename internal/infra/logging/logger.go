// Package logging provides file-based logging for taskboard.
// Entries go to a single size-rotated file (<config dir>/logs/taskboard.log).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Options configures a file Logger.
type Options struct {
	Mirror     io.Writer // Optional second destination (e.g. stderr with --debug)
	ConfigDir  string    // Empty disables file output
	Level      slog.Level
	MaxSizeMB  int
	MaxBackups int
}

// Logger writes formatted entries to a rotating log file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	out   io.Writer
	file  io.Closer
	now   func() time.Time
	mu    sync.Mutex
	level slog.Level
}

// New creates a Logger from opts.
// With neither a config dir nor a mirror, logging is disabled.
func New(opts Options) *Logger {
	var writers []io.Writer
	var closer io.Closer

	if opts.ConfigDir != "" {
		path := domain.LogPath(opts.ConfigDir)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err == nil {
			lj := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    opts.MaxSizeMB,
				MaxBackups: opts.MaxBackups,
			}
			writers = append(writers, lj)
			closer = lj
		}
	}
	if opts.Mirror != nil {
		writers = append(writers, opts.Mirror)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	return &Logger{out: out, file: closer, level: opts.Level, now: time.Now}
}

// NewWriter creates a Logger that writes to w.
func NewWriter(w io.Writer, level slog.Level) *Logger {
	return &Logger{out: w, level: level, now: time.Now}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a log entry in the specified format.
// Format: [2025-12-30 09:32:51] [INFO] [task-1] [category] message
func formatLog(t time.Time, level slog.Level, taskID int, category, msg string) string {
	levelStr := levelToString(level)
	taskStr := "global"
	if taskID > 0 {
		taskStr = fmt.Sprintf("task-%d", taskID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelStr,
		taskStr,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, taskID int, category, msg string) {
	if l.out == nil || level < l.level {
		return
	}
	entry := formatLog(l.now(), level, taskID, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, entry)
}

// Info logs an info message.
func (l *Logger) Info(taskID int, category, msg string) {
	l.log(slog.LevelInfo, taskID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID int, category, msg string) {
	l.log(slog.LevelDebug, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID int, category, msg string) {
	l.log(slog.LevelWarn, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID int, category, msg string) {
	l.log(slog.LevelError, taskID, category, msg)
}

// Handler returns a slog.Handler that writes through l.
// The "category" and "task" attributes map to the entry's category and task id.
func (l *Logger) Handler() slog.Handler {
	return &handler{logger: l}
}

type handler struct {
	logger *Logger
	attrs  []slog.Attr
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.out != nil && level >= h.logger.level
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	category := "app"
	taskID := 0
	var extra []string

	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "category":
			category = a.Value.String()
		case "task":
			if v, ok := a.Value.Any().(int64); ok {
				taskID = int(v)
			}
		default:
			extra = append(extra, a.Key+"="+a.Value.String())
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	r.Attrs(apply)

	msg := r.Message
	if len(extra) > 0 {
		msg += " " + strings.Join(extra, " ")
	}
	h.logger.log(r.Level, taskID, category, msg)
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{logger: h.logger, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *handler) WithGroup(string) slog.Handler {
	return h
}
