// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-sidebar/internal/config"
)

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, initConfig(path, false))
	assert.FileExists(t, path)

	err := initConfig(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, initConfig(path, true))
}

func TestSetConfigValue(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, setConfigValue(path, "model.name", "qwen2.5:3b"))
	require.NoError(t, setConfigValue(path, "model.timeout_secs", "90"))
	require.NoError(t, setConfigValue(path, "ui.markdown", "false"))

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5:3b", cfg.Model.Name)
	assert.Equal(t, 90, cfg.Model.TimeoutSecs)
	assert.False(t, cfg.UI.Markdown)
}

func TestSetConfigValue_DoesNotPersistEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SIDEBAR_MODEL", "from-env")
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, setConfigValue(path, "model.timeout_secs", "30"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env")
}

func TestSetConfigValue_Errors(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	err := setConfigValue(path, "model.nope", "x")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))

	err = setConfigValue(path, "model.timeout_secs", "0")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCodeFor(err))
	assert.NoFileExists(t, path)
}

func TestWriteConfig(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeConfig(&out, config.Default(), false))
	assert.Contains(t, out.String(), "[model]")
	assert.Contains(t, out.String(), `name = "llama3.2:1b"`)

	out.Reset()
	require.NoError(t, writeConfig(&out, config.Default(), true))
	assert.True(t, strings.HasPrefix(out.String(), "{"))
	assert.Contains(t, out.String(), `"timeout_secs": 45`)
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	logFile := filepath.Join(home, "log")

	out, err := execute(t, "", "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, err = execute(t, "", "--config", path, "config", "init")
	require.NoError(t, err)

	_, err = execute(t, "", "--config", path, "config", "set", "model.name", "mistral")
	require.NoError(t, err)

	out, err = execute(t, "", "--config", path, "--log-file", logFile, "config", "get", "model.name")
	require.NoError(t, err)
	assert.Equal(t, "mistral\n", out)

	out, err = execute(t, "", "config", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "lock.path")

	_, err = execute(t, "", "config", "set", "model.name")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))
}
