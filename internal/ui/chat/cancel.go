// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// =============================================================================
// CANCEL FUNCTION MANAGEMENT (THREAD-SAFE)
// =============================================================================

// cancelManager holds the cancel function of the overlay's background
// work (the config watcher). It must be used as a pointer in Model so the
// mutex is not copied when Update returns model copies.
type cancelManager struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// setCancelFunc stores fn, cancelling any function it replaces.
func (cm *cancelManager) setCancelFunc(fn context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
	}
	cm.cancelFunc = fn
}

// cancel invokes the stored cancel function and clears it. Safe to call
// multiple times or with no cancel function set.
func (cm *cancelManager) cancel() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
		cm.cancelFunc = nil
	}
}

// =============================================================================
// MODEL METHODS (CONVENIENCE WRAPPERS)
// =============================================================================

// BackgroundContext returns a context that lives until the overlay closes.
// Work started with it (such as config.Watch) stops on Esc, Ctrl+C or a
// toggle-off signal.
func (m *Model) BackgroundContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.setCancelFunc(cancel)
	return ctx
}

// stopBackground cancels the context returned by BackgroundContext.
func (m *Model) stopBackground() {
	m.cancelMgr.cancel()
}
