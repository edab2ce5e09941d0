package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erazemk/assetinv/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, cleanup := New(config.Log{Level: "info"}, &stdout, &stderr)
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("hello", "k", "v")
	logger.Warn("careful")
	logger.Error("boom")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(stdout.String(), "hello") || !strings.Contains(stdout.String(), "careful") {
		t.Errorf("expected info and warn on stdout, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "boom") {
		t.Error("error record leaked to stdout")
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Errorf("expected error on stderr, got %q", stderr.String())
	}
}

func TestWithAttrsKeepsRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, cleanup := New(config.Log{Level: "warn"}, &stdout, &stderr)
	defer cleanup()

	logger = logger.With("request_id", "abc").WithGroup("req")
	logger.Info("skipped")
	logger.Error("failed", "status", 500)

	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "request_id=abc") {
		t.Errorf("expected attrs on stderr record, got %q", stderr.String())
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assetinv.log")
	var stdout, stderr bytes.Buffer
	logger, cleanup := New(config.Log{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}, &stdout, &stderr)

	logger.Info("to file")
	logger.Error("also to file")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") || !strings.Contains(string(data), "also to file") {
		t.Errorf("expected both records in file, got %q", string(data))
	}
}
