// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the sidebar command line.
//
// The root command is the toggle: the first launch records its pid and
// opens the assistant overlay, the next launch terminates it and exits.
// Subcommands cover one-shot prompts, diagnostics and config management.
//
// # Commands
//
//	sidebar                     Toggle the assistant overlay
//	sidebar ask "question"      Send one prompt and print the reply
//	sidebar doctor              Check the model tool, config and lock
//	sidebar config show|init|path|get|set|keys
//	sidebar version
//
// # Global Flags
//
//	--config PATH    config file (default ~/.sidebar/config.toml)
//	--model NAME     model override
//	--lock PATH      pid lock file
//	--plain          line mode instead of the overlay
//	--log-file PATH  log file ("-" for stderr)
//	--debug          debug logging
package cli
