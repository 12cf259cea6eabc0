// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the sidebar packages.
//
// String Utilities:
//   - HeadRunes: first n characters of a string, UTF-8 safe
//   - TruncateWithMarker: cut to n characters and append a marker when cut
//   - TruncateWidth, StringWidth: terminal display width (CJK aware)
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
