// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package lockfile

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSleeper(t *testing.T) *exec.Cmd {
	t.Helper()
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	cmd := exec.Command(sleep, "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		cmd.Process.Kill()
		cmd.Wait()
	})
	return cmd
}

func TestAcquireOrToggle_TerminatesLiveInstance(t *testing.T) {
	cmd := startSleeper(t)
	path := filepath.Join(t.TempDir(), DefaultName)
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644))

	res, err := AcquireOrToggle(path)
	require.NoError(t, err)
	assert.Equal(t, ExitNow, res)

	_, ok := Holder(path)
	assert.False(t, ok)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		assert.Error(t, err, "sleeper should die from SIGTERM")
	case <-time.After(5 * time.Second):
		t.Fatal("recorded instance did not terminate")
	}
}

func TestAcquireOrToggle_DeadPidIsStale(t *testing.T) {
	cmd := startSleeper(t)
	pid := cmd.Process.Pid
	require.NoError(t, cmd.Process.Kill())
	cmd.Wait()
	require.False(t, Alive(pid))

	path := filepath.Join(t.TempDir(), DefaultName)
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644))

	res, err := AcquireOrToggle(path)
	require.NoError(t, err)
	assert.Equal(t, ExitNow, res)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAlive(t *testing.T) {
	assert.True(t, Alive(os.Getpid()))
}
