// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the bridge, the
// model runner and the chat view.
//
// # Key Types
//
//   - Kind: classification of a model reply (success, empty, error, timeout, unavailable)
//   - Reply: classified text produced for one prompt
//   - Message: one entry of the chat log (user prompt or assistant reply)
//   - Transcript: the in-memory chat log shown by the overlay
//
// Nothing here is persisted. A Transcript lives exactly as long as the
// overlay that owns it.
package model
