// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/rigrun-sidebar/internal/bridge"
	"github.com/jeranaias/rigrun-sidebar/internal/ui/chat"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of input after printing a prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// linerReader provides line editing and in-memory history on a terminal.
// USABILITY: arrow keys recall earlier questions for this session only.
type linerReader struct {
	state *liner.State
}

func newLinerReader() *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &linerReader{state: state}
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

func (r *linerReader) Close() error {
	return r.state.Close()
}

// scanReader reads lines from a pipe or any other non-terminal input.
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newScanReader(in io.Reader, out io.Writer) *scanReader {
	return &scanReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *scanReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scanReader) Close() error {
	return nil
}

// =============================================================================
// PLAIN MODE LOOP
// =============================================================================

type lineResult struct {
	line string
	err  error
}

// runREPL drives the bridge from a line-oriented loop. It returns when
// input ends, the user types exit, or ctx is canceled by a toggle-off.
func runREPL(ctx context.Context, e *env, b *bridge.Bridge, in io.Reader, out io.Writer) error {
	var lr lineReader
	if f, ok := in.(*os.File); ok && f == os.Stdin && IsTTY() {
		lr = newLinerReader()
	} else {
		lr = newScanReader(in, out)
	}
	defer lr.Close()

	fmt.Fprintln(out, TitleStyle.Render("AI Assistant"))
	fmt.Fprintln(out, DimStyle.Render("Ready to help with questions and analysis"))

	// The read runs on its own goroutine so a termination signal is not
	// stuck behind a blocking prompt.
	lines := make(chan lineResult, 1)
	read := func() {
		line, err := lr.Prompt(PromptStyle.Render("> "))
		lines <- lineResult{line: line, err: err}
	}

	for {
		go read()

		var res lineResult
		select {
		case <-ctx.Done():
			e.logger.Info("line mode closed by signal")
			return nil
		case res = <-lines:
		}

		if res.err != nil {
			if !errors.Is(res.err, io.EOF) && !errors.Is(res.err, liner.ErrPromptAborted) {
				e.logger.Warn("input error", "error", res.err)
			}
			fmt.Fprintln(out)
			return nil
		}

		query := strings.TrimSpace(res.line)
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "exit") || strings.EqualFold(query, "quit") {
			return nil
		}

		req, ok := b.Submit(query)
		if !ok {
			continue
		}
		if req.Truncated {
			fmt.Fprintln(out, DimStyle.Render("(long question shortened before sending)"))
		}
		fmt.Fprintln(out, DimStyle.Render(chat.ThinkingText))

		resp, err := b.Await(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Fprintln(out, renderReply(resp.Reply, e.cfg.UI.Markdown))
		fmt.Fprintln(out)
	}
}
