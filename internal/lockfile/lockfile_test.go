// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder stands in for the platform signal.
type recorder struct {
	pids []int
	err  error
}

func (r *recorder) signal(pid int) error {
	r.pids = append(r.pids, pid)
	return r.err
}

func lockPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), DefaultName)
}

func TestAcquireOrToggle_NoFileProceeds(t *testing.T) {
	path := lockPath(t)
	rec := &recorder{}

	res, err := AcquireOrToggleWith(path, Options{Pid: 4242, Signal: rec.signal})
	require.NoError(t, err)
	assert.Equal(t, Proceed, res)
	assert.Empty(t, rec.pids, "no signal should be sent when no instance is recorded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4242", string(data))
}

func TestAcquireOrToggle_DefaultsToOwnPid(t *testing.T) {
	path := lockPath(t)

	res, err := AcquireOrToggle(path)
	require.NoError(t, err)
	assert.Equal(t, Proceed, res)

	pid, ok := Holder(path)
	require.True(t, ok)
	assert.Equal(t, os.Getpid(), pid)
}

func TestAcquireOrToggle_RecordedPidExits(t *testing.T) {
	path := lockPath(t)
	require.NoError(t, os.WriteFile(path, []byte("31337\n"), 0o644))
	rec := &recorder{}

	res, err := AcquireOrToggleWith(path, Options{Pid: 1, Signal: rec.signal})
	require.NoError(t, err)
	assert.Equal(t, ExitNow, res)
	assert.Equal(t, []int{31337}, rec.pids)

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "lock file should be removed")
}

func TestAcquireOrToggle_StalePidStillExits(t *testing.T) {
	path := lockPath(t)
	require.NoError(t, os.WriteFile(path, []byte("99999"), 0o644))
	rec := &recorder{err: errors.New("no such process")}

	res, err := AcquireOrToggleWith(path, Options{Pid: 1, Signal: rec.signal})
	require.NoError(t, err)
	assert.Equal(t, ExitNow, res, "signal failure must not change the outcome")

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// The next launch behaves as toggle-on.
	res, err = AcquireOrToggleWith(path, Options{Pid: 7, Signal: rec.signal})
	require.NoError(t, err)
	assert.Equal(t, Proceed, res)
}

func TestAcquireOrToggle_MalformedLockProceeds(t *testing.T) {
	for _, content := range []string{"", "not-a-pid", "12abc", "-5", "0"} {
		t.Run(strconv.Quote(content), func(t *testing.T) {
			path := lockPath(t)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			rec := &recorder{}

			res, err := AcquireOrToggleWith(path, Options{Pid: 555, Signal: rec.signal})
			require.NoError(t, err)
			assert.Equal(t, Proceed, res)
			assert.Empty(t, rec.pids)

			pid, ok := Holder(path)
			require.True(t, ok)
			assert.Equal(t, 555, pid)
		})
	}
}

func TestAcquireOrToggle_UnwritableLockStillProceeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", DefaultName)

	res, err := AcquireOrToggleWith(path, Options{Pid: 9, Signal: (&recorder{}).signal})
	assert.Error(t, err)
	assert.Equal(t, Proceed, res)
}

func TestRelease(t *testing.T) {
	t.Run("removes own lock", func(t *testing.T) {
		path := lockPath(t)
		require.NoError(t, os.WriteFile(path, []byte("100"), 0o644))

		require.NoError(t, ReleasePid(path, 100))
		_, ok := Holder(path)
		assert.False(t, ok)
	})

	t.Run("keeps a newer instance's lock", func(t *testing.T) {
		path := lockPath(t)
		require.NoError(t, os.WriteFile(path, []byte("200"), 0o644))

		require.NoError(t, ReleasePid(path, 100))
		pid, ok := Holder(path)
		require.True(t, ok)
		assert.Equal(t, 200, pid)
	})

	t.Run("missing file is fine", func(t *testing.T) {
		assert.NoError(t, Release(lockPath(t)))
	})
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "exit", ExitNow.String())
	assert.Equal(t, "unknown", Result(9).String())
}
