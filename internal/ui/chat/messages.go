// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-sidebar/internal/bridge"
	"github.com/jeranaias/rigrun-sidebar/internal/config"
)

// =============================================================================
// BRIDGE MESSAGES
// =============================================================================

// ResponseMsg carries one worker outcome from bridge.Results into Update.
// Closed is set when the bridge shut down while the command was waiting.
type ResponseMsg struct {
	Response bridge.Response
	Closed   bool
}

// WaitForResponse blocks on the bridge's result channel inside a command,
// off the Update loop, and delivers the outcome as a ResponseMsg.
func WaitForResponse(b *bridge.Bridge) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-b.Results()
		if !ok {
			return ResponseMsg{Closed: true}
		}
		return ResponseMsg{Response: resp}
	}
}

// =============================================================================
// LIFECYCLE MESSAGES
// =============================================================================

// ShutdownMsg asks the overlay to close, e.g. after a toggle-off SIGTERM.
type ShutdownMsg struct {
	Reason string
}

// ConfigReloadedMsg delivers a config file change. Err is set when the new
// file could not be loaded; the running settings are kept in that case.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
