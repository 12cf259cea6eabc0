// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

package ollama

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// FindExecutable searches for name in PATH and then in the common Ollama
// installation paths on Windows.
func FindExecutable(name string) (string, error) {
	if name == "" {
		name = DefaultCommand
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	exe := name
	if !strings.HasSuffix(strings.ToLower(exe), ".exe") {
		exe += ".exe"
		if path, err := exec.LookPath(exe); err == nil {
			return path, nil
		}
	}
	if filepath.Base(exe) != exe {
		return "", fmt.Errorf("%s: not found or not executable", name)
	}

	possiblePaths := []string{}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		possiblePaths = append(possiblePaths, filepath.Join(localAppData, "Programs", "Ollama", exe))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(`C:\Program Files\Ollama`, exe),
		filepath.Join(`C:\Program Files (x86)\Ollama`, exe),
	)
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(userProfile, "Ollama", exe),
			filepath.Join(userProfile, ".ollama", exe),
		)
	}

	for _, p := range possiblePaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH or common installation directories. "+
		"Checked: PATH, %%LOCALAPPDATA%%\\Programs\\Ollama, C:\\Program Files\\Ollama", exe)
}

// configureProcess keeps the model tool from flashing a console window.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
