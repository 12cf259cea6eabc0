// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/rigrun-sidebar/internal/model"
	"github.com/jeranaias/rigrun-sidebar/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultCommand is the model tool looked up on PATH.
	DefaultCommand = "ollama"

	// DefaultModel is small enough to answer quickly on a laptop CPU.
	DefaultModel = "llama3.2:1b"

	// DefaultTimeout is the hard wall-clock budget for one prompt.
	DefaultTimeout = 45 * time.Second

	// DefaultNumThreads is exported to the tool as OLLAMA_NUM_THREADS.
	DefaultNumThreads = 6

	// DefaultKeepAlive is exported as OLLAMA_KEEP_ALIVE so the model stays
	// loaded between prompts.
	DefaultKeepAlive = "30m"

	// waitDelay bounds how long Wait blocks on inherited pipes after the
	// process was killed.
	waitDelay = 2 * time.Second

	promptPreviewChars   = 50
	responsePreviewChars = 100
	detailChars          = 200
)

// User-facing placeholder texts.
const (
	EmptyResponseText = "⚠️ Model returned empty response. Try rephrasing your question."
	TimeoutText       = "⚠️ Response took too long. The model might be loading - try again in a moment."
	CanceledText      = "Request canceled."
	unknownErrorText  = "Unknown error"
)

// =============================================================================
// CONFIG
// =============================================================================

// RunnerConfig describes how the model tool is invoked.
type RunnerConfig struct {
	// Command is the executable name or path.
	Command string
	// Args are placed before "run <model>". Empty in production.
	Args []string
	// Model is passed to "run".
	Model string
	// Timeout is the hard wall-clock budget. Zero disables it.
	Timeout time.Duration
	// NumThreads becomes OLLAMA_NUM_THREADS. Zero leaves it unset.
	NumThreads int
	// KeepAlive becomes OLLAMA_KEEP_ALIVE. Empty leaves it unset.
	KeepAlive string
	// ExtraEnv entries are appended last and win over everything else.
	ExtraEnv []string
}

// DefaultRunnerConfig returns the stock `ollama run llama3.2:1b` setup.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Command:    DefaultCommand,
		Model:      DefaultModel,
		Timeout:    DefaultTimeout,
		NumThreads: DefaultNumThreads,
		KeepAlive:  DefaultKeepAlive,
	}
}

// Environ returns base with the Ollama overrides appended. Later entries
// win when exec deduplicates the environment.
func (c RunnerConfig) Environ(base []string) []string {
	env := make([]string, 0, len(base)+2+len(c.ExtraEnv))
	env = append(env, base...)
	if c.NumThreads > 0 {
		env = append(env, "OLLAMA_NUM_THREADS="+strconv.Itoa(c.NumThreads))
	}
	if c.KeepAlive != "" {
		env = append(env, "OLLAMA_KEEP_ALIVE="+c.KeepAlive)
	}
	return append(env, c.ExtraEnv...)
}

func (c RunnerConfig) argv() []string {
	args := make([]string, 0, len(c.Args)+2)
	args = append(args, c.Args...)
	return append(args, "run", c.Model)
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes prompts through the model tool. It holds no per-request
// state, so one Runner serves every request of the process.
type Runner struct {
	mu     sync.RWMutex
	cfg    RunnerConfig
	logger *slog.Logger
}

// NewRunner creates a Runner. Empty Command and Model fall back to the
// defaults. A nil logger means slog.Default().
func NewRunner(cfg RunnerConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    normalize(cfg),
		logger: logger.With("component", "ollama"),
	}
}

func normalize(cfg RunnerConfig) RunnerConfig {
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return cfg
}

// Config returns a copy of the current configuration.
func (r *Runner) Config() RunnerConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Configure replaces the configuration. A call already running keeps the
// settings it started with.
func (r *Runner) Configure(cfg RunnerConfig) {
	r.mu.Lock()
	r.cfg = normalize(cfg)
	r.mu.Unlock()
}

// Run executes prompt and folds the outcome into a display-ready reply.
func (r *Runner) Run(ctx context.Context, prompt string) model.Reply {
	start := time.Now()
	text, err := r.Generate(ctx, prompt)
	reply := Classify(text, err)
	reply.Duration = time.Since(start)
	return reply
}

// Generate executes prompt and returns the trimmed stdout. Failures are
// *ClientError values carrying one of the ErrType constants.
func (r *Runner) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := r.Config()

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	r.logger.Debug("sending prompt", "model", cfg.Model, "preview", util.HeadRunes(prompt, promptPreviewChars)+"...")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, cfg.Command, cfg.argv()...)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = cfg.Environ(os.Environ())
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	err := cmd.Run()

	if cmd.ProcessState != nil {
		r.logger.Debug("model call finished", "return_code", cmd.ProcessState.ExitCode())
	}

	if err != nil {
		return "", r.classifyRunError(ctx, cfg, err, stderr.String())
	}

	text := strings.TrimSpace(stdout.String())
	r.logger.Debug("model response",
		"length", len(text),
		"preview", util.HeadRunes(text, responsePreviewChars)+"...")

	if text == "" {
		return "", &ClientError{
			Type:    ErrTypeEmptyResponse,
			Message: ErrEmptyResponse.Message,
		}
	}
	return text, nil
}

func (r *Runner) classifyRunError(ctx context.Context, cfg RunnerConfig, err error, stderr string) error {
	// Context state is checked first: a killed process also reports an
	// ExitError, which must not read as a model failure.
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		r.logger.Warn("model call timed out", "timeout", cfg.Timeout)
		return &ClientError{
			Type:    ErrTypeTimeout,
			Message: fmt.Sprintf("%s after %s", ErrTimeout.Message, cfg.Timeout),
			Cause:   ctxErr,
		}
	case ctxErr != nil:
		r.logger.Debug("model call canceled")
		return &ClientError{
			Type:    ErrTypeCanceled,
			Message: ErrCanceled.Message,
			Cause:   ctxErr,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = unknownErrorText
		}
		r.logger.Warn("model exited with error", "return_code", exitErr.ExitCode(), "stderr", util.HeadRunes(detail, detailChars))
		return &ClientError{
			Type:    ErrTypeModelFailure,
			Message: fmt.Sprintf("%s (exit %d)", ErrModelFailure.Message, exitErr.ExitCode()),
			Detail:  detail,
		}
	}

	r.logger.Error("model tool unavailable", "command", cfg.Command, "error", err)
	return &ClientError{
		Type:    ErrTypeUnavailable,
		Message: ErrUnavailable.Message,
		Detail:  err.Error(),
		Cause:   err,
	}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classify maps the result of Generate to a reply. Errors that are not a
// *ClientError are treated as an unavailable tool.
func Classify(text string, err error) model.Reply {
	if err == nil {
		return model.Reply{Kind: model.KindSuccess, Text: text}
	}

	var ce *ClientError
	if !errors.As(err, &ce) {
		ce = &ClientError{Type: ErrTypeUnavailable, Detail: err.Error()}
	}

	switch ce.Type {
	case ErrTypeEmptyResponse:
		return model.Reply{Kind: model.KindEmpty, Text: EmptyResponseText}
	case ErrTypeModelFailure:
		detail := ce.Detail
		if detail == "" {
			detail = unknownErrorText
		}
		return model.Reply{
			Kind: model.KindModelError,
			Text: fmt.Sprintf("⚠️ Model error: %s...", util.HeadRunes(detail, detailChars)),
		}
	case ErrTypeTimeout:
		return model.Reply{Kind: model.KindTimeout, Text: TimeoutText}
	case ErrTypeCanceled:
		return model.Reply{Kind: model.KindCanceled, Text: CanceledText}
	default:
		detail := ce.Detail
		if detail == "" {
			detail = ce.Error()
		}
		return model.Reply{
			Kind: model.KindUnavailable,
			Text: fmt.Sprintf("❌ Error connecting to Ollama: %s...", util.HeadRunes(detail, detailChars)),
		}
	}
}
