// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the overlay chat view of the sidebar assistant.

The overlay is a Bubble Tea model: a scrolling chat log with a welcome
header, one bubble per message, a processing indicator while a prompt is in
flight, and a single-line input with a send affordance.

# Request Flow

Enter hands the trimmed input to a bridge.Bridge. The bridge runs the model
off the UI goroutine and WaitForResponse turns its result channel into a
ResponseMsg. The model passes that message back through Bridge.Complete,
which drops stale results, before the reply is appended to the log.

While a request is in flight further submissions are ignored and the send
affordance shows a busy label.

# External Events

  - ShutdownMsg closes the overlay (SIGTERM from a second launch)
  - ConfigReloadedMsg applies a reloaded config between requests
*/
package chat
