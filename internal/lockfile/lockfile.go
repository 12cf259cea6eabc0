// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultName is the lock file name used under the temp directory.
const DefaultName = "ai_assistant.pid"

// DefaultPath returns the default lock location, $TMPDIR/ai_assistant.pid.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultName)
}

// Result tells the caller whether to open the overlay or exit.
type Result int

const (
	// Proceed means no instance was recorded; the caller now owns the lock.
	Proceed Result = iota
	// ExitNow means a running instance was asked to close; the caller must
	// exit without opening a window.
	ExitNow
)

func (r Result) String() string {
	switch r {
	case Proceed:
		return "proceed"
	case ExitNow:
		return "exit"
	default:
		return "unknown"
	}
}

// Options makes the toggle testable without touching real processes.
type Options struct {
	// Pid is recorded on the Proceed path. Zero means os.Getpid().
	Pid int
	// Signal delivers the termination request. Nil means Terminate.
	Signal func(pid int) error
	// Logger receives toggle events. Nil means slog.Default().
	Logger *slog.Logger
}

// AcquireOrToggle runs the toggle protocol against lockPath using the
// current process id and the platform termination signal.
func AcquireOrToggle(lockPath string) (Result, error) {
	return AcquireOrToggleWith(lockPath, Options{})
}

// AcquireOrToggleWith is AcquireOrToggle with injectable pid and signal.
//
// A readable pid sends the signal, removes the file and returns ExitNow,
// whether or not the signal reached a live process. Anything else (no
// file, unreadable, not an integer) records our pid and returns Proceed.
// The error is non-nil only when recording our pid failed; the result is
// still Proceed in that case because lock trouble never aborts startup.
func AcquireOrToggleWith(lockPath string, opts Options) (Result, error) {
	if opts.Pid == 0 {
		opts.Pid = os.Getpid()
	}
	if opts.Signal == nil {
		opts.Signal = Terminate
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "lockfile", "path", lockPath)

	if oldPid, ok := readPid(lockPath); ok {
		if err := opts.Signal(oldPid); err != nil {
			// Stale lock: the recorded process is gone. Still a toggle-off.
			logger.Debug("signal to recorded instance failed", "pid", oldPid, "error", err)
		} else {
			logger.Info("killed existing instance", "pid", oldPid)
		}
		if err := removeIfExists(lockPath); err != nil {
			logger.Warn("could not remove lock file", "error", err)
		}
		return ExitNow, nil
	}

	if err := os.WriteFile(lockPath, []byte(strconv.Itoa(opts.Pid)), 0o644); err != nil {
		logger.Warn("could not record pid", "pid", opts.Pid, "error", err)
		return Proceed, fmt.Errorf("write lock file %s: %w", lockPath, err)
	}
	logger.Info("lock acquired", "pid", opts.Pid)
	return Proceed, nil
}

// Release removes the lock file on shutdown when it still records the
// current process. A lock already taken over by a newer launch is left
// alone. Absence is not an error.
func Release(lockPath string) error {
	return ReleasePid(lockPath, os.Getpid())
}

// ReleasePid is Release for an explicit owner pid.
func ReleasePid(lockPath string, pid int) error {
	recorded, ok := readPid(lockPath)
	if ok && recorded != pid {
		return nil
	}
	return removeIfExists(lockPath)
}

// Holder reports the pid recorded in lockPath, if any.
func Holder(lockPath string) (int, bool) {
	return readPid(lockPath)
}

// readPid returns the recorded pid. ok is false for a missing, unreadable
// or malformed file, all of which count as "no instance".
func readPid(lockPath string) (pid int, ok bool) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return 0, false
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
