// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("hello, world!"), 0o644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello, world!", string(content))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("test data"), 0o644))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("initial"), 0o644))
	require.NoError(t, AtomicWriteFile(path, []byte("updated"), 0o644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestHeadRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter", "hi", 5, "hi"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello"},
		{"zero", "hello", 0, ""},
		{"negative", "hello", -1, ""},
		{"multibyte", "héllo wörld", 7, "héllo w"},
		{"cjk", "日本語テキスト", 3, "日本語"},
		{"emoji", "🤔🤔🤔", 2, "🤔🤔"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HeadRunes(tc.in, tc.n))
		})
	}
}

func TestTruncateWithMarker(t *testing.T) {
	out, cut := TruncateWithMarker("short", 10, "...")
	assert.False(t, cut)
	assert.Equal(t, "short", out)

	out, cut = TruncateWithMarker("exactly10!", 10, "...")
	assert.False(t, cut)
	assert.Equal(t, "exactly10!", out)

	out, cut = TruncateWithMarker("this is longer", 4, "...")
	assert.True(t, cut)
	assert.Equal(t, "this...", out)

	long := strings.Repeat("é", 1500)
	out, cut = TruncateWithMarker(long, 1000, "...")
	assert.True(t, cut)
	assert.Equal(t, 1003, RuneLen(out))
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 5, StringWidth("hello"))
	assert.Equal(t, 6, StringWidth("日本語"))
	assert.Equal(t, 0, StringWidth(""))
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "hello", TruncateWidth("hello", 10))
	assert.Equal(t, "hello...", TruncateWidth("hello world", 8))
	assert.Equal(t, "", TruncateWidth("hello", 0))
	assert.LessOrEqual(t, StringWidth(TruncateWidth("日本語テキスト", 7)), 7)
}

func TestRuneLen(t *testing.T) {
	assert.Equal(t, 0, RuneLen(""))
	assert.Equal(t, 5, RuneLen("hello"))
	assert.Equal(t, 3, RuneLen("日本語"))
}
