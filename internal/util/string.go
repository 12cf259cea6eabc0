// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "github.com/mattn/go-runewidth"

// UNICODE: every length in this file counts runes, never bytes, so a cut
// can never land inside a multi-byte character.

// HeadRunes returns the first n runes of s, or s itself when it is shorter.
func HeadRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateWithMarker cuts s to its first n runes and appends marker when
// anything was dropped. The second return reports whether a cut happened.
func TruncateWithMarker(s string, n int, marker string) (string, bool) {
	head := HeadRunes(s, n)
	if len(head) == len(s) {
		return s, false
	}
	return head + marker, true
}

// TruncateWidth truncates s to maxWidth terminal columns, ending with "..."
// when it had to cut. Double-width characters count as two columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
