// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/erazemk/assetinv/internal/config"
)

// levelRouter is a slog.Handler that routes records below ERROR to stdout and
// ERROR+ to stderr.
type levelRouter struct {
	min    slog.Level
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.min
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		min:    lr.min,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		min:    lr.min,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// Setup installs the default logger. When cfg.File is set, every record is
// also written to a size-rotated file. The returned cleanup closes that file.
func Setup(cfg config.Log) func() {
	logger, cleanup := New(cfg, os.Stdout, os.Stderr)
	slog.SetDefault(logger)
	return cleanup
}

// New builds a logger writing to stdout/stderr and, optionally, the rotated
// file named by cfg.File.
func New(cfg config.Log, stdout, stderr io.Writer) (*slog.Logger, func()) {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}
	cleanup := func() {}

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cleanup = func() { _ = file.Close() }
		stdout = io.MultiWriter(stdout, file)
		stderr = io.MultiWriter(stderr, file)
	}

	return slog.New(&levelRouter{
		min:    level,
		stdout: slog.NewTextHandler(stdout, opts),
		stderr: slog.NewTextHandler(stderr, opts),
	}), cleanup
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
