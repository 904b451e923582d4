package logging

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_File(t *testing.T) {
	dir := t.TempDir()
	logger := New(Options{ConfigDir: dir, Level: slog.LevelInfo, MaxSizeMB: 1, MaxBackups: 1})
	defer func() { _ = logger.Close() }()

	logger.Info(1, "store", "task created")
	logger.Warn(0, "auth", "session expired")

	content, err := os.ReadFile(domain.LogPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO] [task-1] [store] task created")
	assert.Contains(t, string(content), "[WARN] [global] [auth] session expired")
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelWarn)

	logger.Debug(0, "api", "debug")
	logger.Info(0, "api", "info")
	logger.Warn(0, "api", "warn")
	logger.Error(0, "api", "error")

	out := buf.String()
	assert.NotContains(t, out, "[DEBUG]")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[ERROR]")
}

func TestLogger_Disabled(t *testing.T) {
	logger := New(Options{})
	// Must not panic or write anywhere.
	logger.Error(1, "store", "ignored")
	assert.NoError(t, logger.Close())
}

func TestLogger_Mirror(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	logger := New(Options{ConfigDir: dir, Mirror: &buf, Level: slog.LevelDebug})
	defer func() { _ = logger.Close() }()

	logger.Debug(2, "api", "GET /tasks/2 -> 200")

	assert.Contains(t, buf.String(), "[DEBUG] [task-2] [api] GET /tasks/2 -> 200")
	content, err := os.ReadFile(domain.LogPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "GET /tasks/2 -> 200")
}

func TestFormatLog(t *testing.T) {
	ts := time.Date(2025, 12, 30, 9, 32, 51, 0, time.UTC)
	got := formatLog(ts, slog.LevelError, 7, "detail", "upload failed")
	assert.Equal(t, "[2025-12-30 09:32:51] [ERROR] [task-7] [detail] upload failed\n", got)
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelInfo)
	log := slog.New(logger.Handler()).With("category", "cli")

	log.Info("listed tasks", "task", 3, "count", 2)
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "[INFO] [task-3] [cli] listed tasks count=2")
	assert.False(t, strings.Contains(out, "hidden"))
}
