// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-sidebar/internal/config"
)

func TestCheckLock(t *testing.T) {
	dir := t.TempDir()
	lock := filepath.Join(dir, "ai_assistant.pid")

	alive := func(int) bool { return true }
	dead := func(int) bool { return false }

	c := checkLock(lock, alive)
	assert.Equal(t, CheckPass, c.Status)
	assert.Contains(t, c.Message, "free")

	require.NoError(t, os.WriteFile(lock, []byte("4242"), 0o644))
	c = checkLock(lock, alive)
	assert.Equal(t, CheckPass, c.Status)
	assert.Contains(t, c.Message, "held by pid 4242")

	c = checkLock(lock, dead)
	assert.Equal(t, CheckWarn, c.Status)
	assert.Contains(t, c.Message, "stale")

	require.NoError(t, os.WriteFile(lock, []byte("garbage"), 0o644))
	c = checkLock(lock, alive)
	assert.Equal(t, CheckPass, c.Status)
	assert.Contains(t, c.Message, "free")
}

func TestCheckConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	missing := filepath.Join(dir, "config.toml")
	c := checkConfigFile(missing)
	assert.Equal(t, CheckPass, c.Status)
	assert.Contains(t, c.Message, "not created")

	require.NoError(t, config.SaveTOML(config.Default(), missing))
	c = checkConfigFile(missing)
	assert.Equal(t, CheckPass, c.Status)
	assert.Equal(t, missing, c.Message)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[model]\ntimeout_secs = -3\n"), 0o600))
	c = checkConfigFile(bad)
	assert.Equal(t, CheckFail, c.Status)
	assert.NotEmpty(t, c.Fix)

	c = checkConfigFile("")
	assert.Equal(t, CheckWarn, c.Status)
}

func TestCheckModelTool_Missing(t *testing.T) {
	cfg := config.Default()
	cfg.Model.Command = "sidebar-no-such-tool-xyz"

	c := checkModelTool(cfg)
	assert.Equal(t, CheckFail, c.Status)
	assert.Contains(t, c.Message, "not found")
}

func TestCheckLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Path = "-"
	c := checkLogFile(cfg)
	assert.Equal(t, CheckPass, c.Status)
	assert.Contains(t, c.Message, "stderr")
}

func TestReportChecks(t *testing.T) {
	var out bytes.Buffer
	err := reportChecks(&out, []HealthCheck{
		{Name: "One", Status: CheckPass, Message: "fine"},
		{Name: "Two", Status: CheckWarn, Message: "meh", Fix: "do this"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "All checks passed.")
	assert.Contains(t, out.String(), "do this")

	out.Reset()
	err = reportChecks(&out, []HealthCheck{
		{Name: "Three", Status: CheckFail, Message: "broken"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 check(s) failed")
}

func TestCheckStatus_String(t *testing.T) {
	assert.Equal(t, "Pass", CheckPass.String())
	assert.Equal(t, "Warn", CheckWarn.String())
	assert.Equal(t, "Fail", CheckFail.String())
	assert.Equal(t, "Unknown", CheckStatus(9).String())
}
