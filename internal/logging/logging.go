// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is the log file name used under the temp directory.
const DefaultName = "sidebar.log"

// DefaultPath returns $TMPDIR/sidebar.log.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultName)
}

// Options configures Setup.
type Options struct {
	// Path of the log file. Empty means DefaultPath(). "-" means stderr.
	Path string
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Debug forces the debug level regardless of Level.
	Debug bool
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError)
}

// Setup opens the log file, installs the logger as slog.Default and
// returns it with a closer for the file. When the file cannot be opened
// the returned logger discards records and the error says why; callers
// treat that as a warning, never as fatal.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	level, levelErr := ParseLevel(opts.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}

	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
		err    error
	)
	if path == "-" {
		w = os.Stderr
	} else {
		var f *os.File
		f, err = openLogFile(path)
		if err != nil {
			w = io.Discard
		} else {
			w, closer = f, f
		}
	}

	logger := New(w, level).With("pid", os.Getpid())
	slog.SetDefault(logger)

	if err != nil {
		return logger, closer, err
	}
	if levelErr != nil {
		logger.Warn("falling back to info level", "error", levelErr)
	}
	return logger, closer, nil
}

// SECURITY: prompts can land in debug records, so the file is owner-only.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
