// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot prompt command.
//
// Command: ask <question>
// Short:   Send one prompt and print the reply
//
// Examples:
//   sidebar ask "What is a goroutine?"
//   sidebar ask --model qwen2.5:3b "Summarize RFC 2119"
//
// The prompt goes through the same bridge as the overlay, so it is capped
// and classified the same way. The lock file is never touched.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-sidebar/internal/bridge"
	"github.com/jeranaias/rigrun-sidebar/internal/model"
	"github.com/jeranaias/rigrun-sidebar/internal/ollama"
)

func newAskCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Send one prompt and print the reply",
		Long: `ask sends a single question to the local model and prints the reply.
Multiple arguments are joined with spaces. The exit code is non-zero when
the model failed, timed out or could not be started.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &UsageError{Msg: "ask needs a question, e.g. sidebar ask \"What is a goroutine?\""}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			_, b := e.newBridge()
			defer b.Close()

			return runAsk(cmd.Context(), b, strings.Join(args, " "), e.cfg.UI.Markdown, cmd.OutOrStdout())
		},
	}
}

// runAsk submits question, waits for its reply and prints it.
func runAsk(ctx context.Context, b *bridge.Bridge, question string, markdown bool, out io.Writer) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return &UsageError{Msg: "ask needs a non-blank question"}
	}

	if _, ok := b.Submit(question); !ok {
		return errors.New("prompt was not accepted")
	}
	resp, err := b.Await(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderReply(resp.Reply, markdown))
	if err := replyError(resp.Kind); err != nil {
		return &ReplyError{Err: err}
	}
	return nil
}

// replyError maps a failure kind back to its typed error for exit codes.
func replyError(kind model.Kind) error {
	switch kind {
	case model.KindEmpty:
		return ollama.ErrEmptyResponse
	case model.KindModelError:
		return ollama.ErrModelFailure
	case model.KindTimeout:
		return ollama.ErrTimeout
	case model.KindUnavailable:
		return ollama.ErrUnavailable
	case model.KindCanceled:
		return ollama.ErrCanceled
	default:
		return nil
	}
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderReply formats a reply for line output. Successful answers go
// through glamour when markdown is on; placeholders print as-is.
func renderReply(reply model.Reply, markdown bool) string {
	if reply.Kind != model.KindSuccess {
		if reply.Kind == model.KindUnavailable {
			return ErrorStyle.Render(reply.Text)
		}
		return WarningStyle.Render(reply.Text)
	}
	if !markdown {
		return reply.Text
	}
	return renderMarkdown(reply.Text)
}

// renderMarkdown renders markdown for the terminal, falling back to the
// raw text when glamour fails.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
