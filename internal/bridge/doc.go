// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bridge connects a single-threaded owner loop to a blocking
// model call without ever blocking the loop.
//
// The owner calls Submit, which starts at most one worker goroutine, and
// later receives the outcome on Results. Every received Response goes back
// through Complete, which checks that it belongs to the current generation
// before the completion handler sees it. A response from a request that
// was canceled or superseded is dropped there.
//
// # State Machine
//
//	idle --Submit(non-empty)--> processing --Complete(current)--> idle
//	processing --Cancel--> idle (generation bumped, late result dropped)
//
// Submit is a no-op while processing or for blank prompts.
package bridge
