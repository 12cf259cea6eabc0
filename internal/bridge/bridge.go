// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/rigrun-sidebar/internal/model"
	"github.com/jeranaias/rigrun-sidebar/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultMaxPromptChars is the rune cap applied before a prompt is sent.
	DefaultMaxPromptChars = 1000

	// TruncationMarker is appended to a prompt that was cut.
	TruncationMarker = "..."
)

// ErrClosed is returned by Await once the bridge has been closed.
var ErrClosed = errors.New("bridge: closed")

// =============================================================================
// TYPES
// =============================================================================

// State is the request state owned by the bridge.
type State int

const (
	StateIdle State = iota
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// Executor performs the blocking model call. It should return promptly
// once ctx is canceled.
type Executor interface {
	Run(ctx context.Context, prompt string) model.Reply
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, prompt string) model.Reply

// Run calls f(ctx, prompt).
func (f ExecutorFunc) Run(ctx context.Context, prompt string) model.Reply {
	return f(ctx, prompt)
}

// Request describes an accepted submission.
type Request struct {
	ID          string
	Generation  uint64
	Prompt      string // after truncation
	Truncated   bool
	SubmittedAt time.Time
}

// Response is the classified outcome of one request.
type Response struct {
	RequestID  string
	Generation uint64
	model.Reply
}

// Options configures a Bridge.
type Options struct {
	// MaxPromptChars caps the prompt in runes. Zero means DefaultMaxPromptChars.
	MaxPromptChars int
	// OnComplete fires once for every response Complete accepts.
	OnComplete func(Response)
	// Logger receives bridge events. Nil means slog.Default().
	Logger *slog.Logger
}

// =============================================================================
// BRIDGE
// =============================================================================

// Bridge serializes prompts onto one worker at a time.
type Bridge struct {
	exec   Executor
	logger *slog.Logger

	results chan Response
	wg      sync.WaitGroup

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	maxPrompt  int
	onComplete func(Response)
	closed     bool
}

// New creates an idle Bridge around exec.
func New(exec Executor, opts Options) *Bridge {
	if opts.MaxPromptChars <= 0 {
		opts.MaxPromptChars = DefaultMaxPromptChars
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		exec:       exec,
		logger:     logger.With("component", "bridge"),
		results:    make(chan Response, 1),
		maxPrompt:  opts.MaxPromptChars,
		onComplete: opts.OnComplete,
	}
}

// Results delivers worker outcomes. The owner loop must pass each value to
// Complete. The channel is closed by Close.
func (b *Bridge) Results() <-chan Response {
	return b.results
}

// State returns the current request state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Generation returns the current generation counter.
func (b *Bridge) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

// OnComplete replaces the completion handler.
func (b *Bridge) OnComplete(fn func(Response)) {
	b.mu.Lock()
	b.onComplete = fn
	b.mu.Unlock()
}

// SetMaxPromptChars changes the truncation cap for later submissions.
// Values <= 0 restore the default.
func (b *Bridge) SetMaxPromptChars(n int) {
	if n <= 0 {
		n = DefaultMaxPromptChars
	}
	b.mu.Lock()
	b.maxPrompt = n
	b.mu.Unlock()
}

// Submit starts a worker for prompt. It reports false, with no state
// change and no worker, when the prompt is blank, a request is already
// processing, or the bridge is closed.
func (b *Bridge) Submit(prompt string) (Request, bool) {
	if strings.TrimSpace(prompt) == "" {
		return Request{}, false
	}

	b.mu.Lock()
	if b.closed || b.state == StateProcessing {
		state := b.state
		b.mu.Unlock()
		b.logger.Debug("submit ignored", "state", state.String())
		return Request{}, false
	}

	b.generation++
	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.state = StateProcessing

	text, truncated := util.TruncateWithMarker(prompt, b.maxPrompt, TruncationMarker)
	req := Request{
		ID:          uuid.NewString(),
		Generation:  b.generation,
		Prompt:      text,
		Truncated:   truncated,
		SubmittedAt: time.Now(),
	}
	b.wg.Add(1)
	b.mu.Unlock()

	b.logger.Debug("request submitted",
		"request_id", req.ID,
		"generation", req.Generation,
		"truncated", req.Truncated)

	go b.work(ctx, req)
	return req, true
}

// work runs off the owner loop. A panic in the executor becomes a model
// error response so the owner still sees exactly one outcome.
func (b *Bridge) work(ctx context.Context, req Request) {
	defer b.wg.Done()

	resp := Response{RequestID: req.ID, Generation: req.Generation}
	func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("executor panicked", "request_id", req.ID, "panic", r)
				resp.Reply = model.Reply{
					Kind: model.KindModelError,
					Text: fmt.Sprintf("⚠️ Model error: %s...", util.HeadRunes(fmt.Sprint(r), 200)),
				}
			}
		}()
		resp.Reply = b.exec.Run(ctx, req.Prompt)
	}()

	// A canceled worker gives up on delivery instead of blocking on an
	// owner that no longer reads.
	select {
	case b.results <- resp:
	case <-ctx.Done():
		b.logger.Debug("result abandoned", "request_id", req.ID, "generation", req.Generation)
	}
}

// Complete applies the generation guard to resp. A response that is not
// for the in-flight request is dropped and reported false. Otherwise the
// bridge returns to idle, the completion handler fires, and true is
// returned.
func (b *Bridge) Complete(resp Response) (Response, bool) {
	b.mu.Lock()
	if b.state != StateProcessing || resp.Generation != b.generation {
		state, gen := b.state, b.generation
		b.mu.Unlock()
		b.logger.Debug("stale completion dropped",
			"request_id", resp.RequestID,
			"generation", resp.Generation,
			"current_generation", gen,
			"state", state.String())
		return resp, false
	}
	b.state = StateIdle
	cancel := b.cancel
	b.cancel = nil
	handler := b.onComplete
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	b.logger.Debug("request completed",
		"request_id", resp.RequestID,
		"kind", resp.Kind.String(),
		"duration", resp.Duration)

	if handler != nil {
		handler(resp)
	}
	return resp, true
}

// Await reads Results until Complete accepts a response or ctx is done.
// It is the blocking form used by line-mode callers.
func (b *Bridge) Await(ctx context.Context) (Response, error) {
	for {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case resp, ok := <-b.results:
			if !ok {
				return Response{}, ErrClosed
			}
			if accepted, ok := b.Complete(resp); ok {
				return accepted, nil
			}
		}
	}
}

// Cancel abandons the in-flight request, if any. The generation moves on,
// so a late result from the abandoned worker is dropped by Complete and
// its completion handler never fires.
func (b *Bridge) Cancel() {
	b.mu.Lock()
	if b.state != StateProcessing {
		b.mu.Unlock()
		return
	}
	b.generation++
	cancel := b.cancel
	b.cancel = nil
	b.state = StateIdle
	gen := b.generation
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	b.logger.Debug("request canceled", "generation", gen)
}

// Close cancels any in-flight request, waits for the worker to exit and
// closes Results. Later submissions are ignored.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.Cancel()
	b.wg.Wait()
	close(b.results)
}
