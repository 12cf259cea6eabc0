// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama runs prompts through the local `ollama` command-line tool.
//
// Each prompt is one blocking `ollama run <model>` invocation: the prompt
// goes in on stdin, the answer comes back on stdout. The call carries a
// hard wall-clock timeout and an environment override that pins the
// thread count and keeps the model resident between prompts.
//
// # Key Types
//
//   - Runner: executes prompts; safe for concurrent use and reconfiguration
//   - RunnerConfig: command, model, timeout and environment
//   - ClientError: typed failure (empty output, non-zero exit, timeout, unavailable)
//
// # Usage
//
//	runner := ollama.NewRunner(ollama.DefaultRunnerConfig())
//	reply := runner.Reply(ctx, "Why is the sky blue?")
//	fmt.Println(reply.Text)
//
// Reply never fails: every error is folded into a model.Reply whose Kind
// says what went wrong and whose Text is ready to show to the user.
package ollama
