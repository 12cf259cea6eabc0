// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-sidebar/internal/bridge"
	"github.com/jeranaias/rigrun-sidebar/internal/config"
	"github.com/jeranaias/rigrun-sidebar/internal/logging"
	"github.com/jeranaias/rigrun-sidebar/internal/model"
	"github.com/jeranaias/rigrun-sidebar/internal/ollama"
	"github.com/jeranaias/rigrun-sidebar/internal/ui/chat"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// deadPid is above any pid_max, so signalling it always fails.
const deadPid = 2147483646

// isolate points HOME at a temp dir and clears SIDEBAR_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{"SIDEBAR_MODEL", "SIDEBAR_OLLAMA_BIN", "SIDEBAR_TIMEOUT", "SIDEBAR_LOCK", "SIDEBAR_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return home
}

func testEnv() *env {
	cfg := config.Default()
	cfg.UI.Markdown = false
	return &env{
		flags:  &globalFlags{},
		cfg:    cfg,
		logger: logging.Discard(),
	}
}

func echoBridge(t *testing.T) *bridge.Bridge {
	t.Helper()
	b := bridge.New(bridge.ExecutorFunc(func(_ context.Context, prompt string) model.Reply {
		return model.Reply{Kind: model.KindSuccess, Text: "echo: " + prompt}
	}), bridge.Options{Logger: logging.Discard()})
	t.Cleanup(b.Close)
	return b
}

func replyBridge(t *testing.T, reply model.Reply) *bridge.Bridge {
	t.Helper()
	b := bridge.New(bridge.ExecutorFunc(func(context.Context, string) model.Reply {
		return reply
	}), bridge.Options{Logger: logging.Discard()})
	t.Cleanup(b.Close)
	return b
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// =============================================================================
// TOGGLE TESTS
// =============================================================================

func TestRoot_ToggleOffPrintsMessageAndRemovesLock(t *testing.T) {
	home := isolate(t)
	lock := filepath.Join(home, "sidebar.pid")
	require.NoError(t, os.WriteFile(lock, []byte(strconv.Itoa(deadPid)), 0o644))

	out, err := execute(t, "", "--lock", lock, "--log-file", filepath.Join(home, "log"))
	require.NoError(t, err)
	assert.Equal(t, ToggleClosedMessage+"\n", out)
	assert.NoFileExists(t, lock)
}

func TestRoot_ToggleOnRunsPlainModeAndReleasesLock(t *testing.T) {
	home := isolate(t)
	lock := filepath.Join(home, "sidebar.pid")

	out, err := execute(t, "exit\n", "--plain", "--lock", lock, "--log-file", filepath.Join(home, "log"))
	require.NoError(t, err)
	assert.Contains(t, out, "AI Assistant")
	assert.NoFileExists(t, lock)
}

func TestRoot_MalformedLockProceeds(t *testing.T) {
	home := isolate(t)
	lock := filepath.Join(home, "sidebar.pid")
	require.NoError(t, os.WriteFile(lock, []byte("not-a-pid"), 0o644))

	out, err := execute(t, "", "--plain", "--lock", lock, "--log-file", filepath.Join(home, "log"))
	require.NoError(t, err)
	assert.NotContains(t, out, ToggleClosedMessage)
	assert.NoFileExists(t, lock)
}

func TestRoot_RejectsArgs(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "unexpected")
	require.Error(t, err)
}

// =============================================================================
// REPL TESTS
// =============================================================================

func TestREPL_AnswersEachLine(t *testing.T) {
	var out bytes.Buffer
	err := runREPL(context.Background(), testEnv(), echoBridge(t), strings.NewReader("hello\n\n  world  \n"), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "echo: hello")
	assert.Contains(t, text, "echo: world")
	assert.Equal(t, 2, strings.Count(text, chat.ThinkingText))
}

func TestREPL_ExitStops(t *testing.T) {
	var out bytes.Buffer
	err := runREPL(context.Background(), testEnv(), echoBridge(t), strings.NewReader("quit\nhello\n"), &out)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "echo: hello")
}

func TestREPL_LongQuestionIsShortened(t *testing.T) {
	var out bytes.Buffer
	long := strings.Repeat("x", bridge.DefaultMaxPromptChars+10)
	err := runREPL(context.Background(), testEnv(), echoBridge(t), strings.NewReader(long+"\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "shortened")
	assert.Contains(t, out.String(), bridge.TruncationMarker)
}

func TestREPL_SignalClosesWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := runREPL(ctx, testEnv(), echoBridge(t), pr, &out)
	require.NoError(t, err)
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestAsk_PrintsReply(t *testing.T) {
	var out bytes.Buffer
	err := runAsk(context.Background(), echoBridge(t), "  what is go?  ", false, &out)
	require.NoError(t, err)
	assert.Equal(t, "echo: what is go?\n", out.String())
}

func TestAsk_BlankIsUsageError(t *testing.T) {
	var out bytes.Buffer
	err := runAsk(context.Background(), echoBridge(t), "   ", false, &out)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))
}

func TestAsk_FailureKindsSetExitCode(t *testing.T) {
	tests := []struct {
		kind model.Kind
		code int
	}{
		{model.KindTimeout, ExitTimeoutError},
		{model.KindUnavailable, ExitModelError},
		{model.KindModelError, ExitModelError},
		{model.KindEmpty, ExitModelError},
		{model.KindCanceled, ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			var out bytes.Buffer
			b := replyBridge(t, model.Reply{Kind: tt.kind, Text: "placeholder"})
			err := runAsk(context.Background(), b, "q", false, &out)
			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCodeFor(err))
			assert.Contains(t, out.String(), "placeholder")
		})
	}
}

func TestAsk_CommandRequiresQuestion(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "ask")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Msg: "bad"}, ExitUsageError},
		{"config", fmt.Errorf("load: %w", config.ValidateErrors{{Field: "model.name", Message: "empty"}}), ExitConfigError},
		{"timeout", fmt.Errorf("ask: %w", ollama.ErrTimeout), ExitTimeoutError},
		{"unavailable", &ReplyError{Err: ollama.ErrUnavailable}, ExitModelError},
		{"command", NewCommandError("config", "init", "exists", nil), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ExitCodeFor(tt.err))
		})
	}
}

func TestCommandError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewCommandError("config", "set", "cannot write", cause)
	assert.Equal(t, "config set failed: cannot write: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

// =============================================================================
// FLAG TESTS
// =============================================================================

func TestEnv_FlagsOverrideConfig(t *testing.T) {
	home := isolate(t)
	flags := &globalFlags{
		model:    "qwen2.5:3b",
		lockPath: filepath.Join(home, "x.pid"),
		logFile:  filepath.Join(home, "x.log"),
		plain:    true,
	}

	e, err := newEnv(flags, io.Discard)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, "qwen2.5:3b", e.cfg.Model.Name)
	assert.Equal(t, flags.lockPath, e.lockPath())
	assert.True(t, e.cfg.UI.Plain)
	assert.FileExists(t, flags.logFile)
}

func TestEnv_ExplicitBrokenConfigFails(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model\nname ="), 0o600))

	_, err := newEnv(&globalFlags{configPath: path, logFile: filepath.Join(home, "x.log")}, io.Discard)
	require.Error(t, err)
}

func TestEnv_ReconfigureKeepsModelFlag(t *testing.T) {
	e := testEnv()
	e.flags.model = "pinned"
	runner, b := e.newBridge()
	defer b.Close()

	cfg := config.Default()
	cfg.Model.Name = "from-file"
	cfg.Model.TimeoutSecs = 5
	e.reconfigure(cfg, runner, b)

	assert.Equal(t, "pinned", runner.Config().Model)
	assert.Equal(t, 5*time.Second, runner.Config().Timeout)
	assert.Equal(t, "pinned", e.cfg.Model.Name)
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sidebar "+Version)
}
