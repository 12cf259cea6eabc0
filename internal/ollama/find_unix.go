// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package ollama

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"
)

// FindExecutable searches for name in PATH and then in the common Ollama
// installation paths on Unix and macOS. An absolute or relative path
// containing a separator is checked as-is.
func FindExecutable(name string) (string, error) {
	if name == "" {
		name = DefaultCommand
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	if filepath.Base(name) != name {
		return "", fmt.Errorf("%s: not found or not executable", name)
	}

	possiblePaths := []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
		filepath.Join("/opt/ollama", name),
	}
	if home := os.Getenv("HOME"); home != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(home, ".local", "bin", name),
			filepath.Join(home, "bin", name),
		)
	}
	possiblePaths = append(possiblePaths,
		filepath.Join("/Applications/Ollama.app/Contents/Resources", name),
	)

	for _, p := range possiblePaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH or common installation directories. "+
		"Checked: PATH, /usr/local/bin, /usr/bin, ~/.local/bin", name)
}

// configureProcess puts the model tool in its own process group so a
// timeout kills anything it spawned, not just the direct child.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		// Negative pid targets the whole group.
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
