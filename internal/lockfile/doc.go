// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lockfile implements the single-instance toggle for the sidebar.
//
// A plain-text pid file marks the running instance. Launching the binary
// while that file names a pid asks the recorded process to terminate and
// tells the caller to exit (toggle-off). Launching it with no usable pid
// file records the caller's pid and tells it to proceed (toggle-on).
//
//	res, err := lockfile.AcquireOrToggle(path)
//	if res == lockfile.ExitNow {
//	    return
//	}
//	defer lockfile.Release(path)
//
// The lock is advisory. There is no file locking and no atomic replace, so
// two launches within the same instant can both proceed.
package lockfile
