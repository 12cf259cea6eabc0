// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the process-wide structured logger.
//
// The overlay owns the terminal, so log records go to a file (by default
// $TMPDIR/sidebar.log) through a log/slog text handler. Packages receive
// an optional *slog.Logger and tag it with a "component" attribute.
package logging
