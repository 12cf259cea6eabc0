// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package lockfile

import "golang.org/x/sys/unix"

// Terminate sends SIGTERM to pid. ESRCH means the recorded instance is
// already gone.
func Terminate(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}

// Alive reports whether pid names a process we could signal.
func Alive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
