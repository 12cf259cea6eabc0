// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// REPLY KIND
// =============================================================================

// Kind classifies the outcome of one model invocation.
type Kind int

const (
	// KindSuccess: exit code 0 with non-empty output.
	KindSuccess Kind = iota
	// KindEmpty: exit code 0 but nothing on stdout.
	KindEmpty
	// KindModelError: the tool exited non-zero.
	KindModelError
	// KindTimeout: the wall-clock budget ran out.
	KindTimeout
	// KindUnavailable: the tool could not be launched at all.
	KindUnavailable
	// KindCanceled: the request was abandoned before it finished.
	KindCanceled
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindEmpty:
		return "empty"
	case KindModelError:
		return "model_error"
	case KindTimeout:
		return "timeout"
	case KindUnavailable:
		return "unavailable"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// IsFailure reports whether the reply text is a placeholder or diagnostic
// rather than model output.
func (k Kind) IsFailure() bool {
	return k != KindSuccess
}

// =============================================================================
// REPLY
// =============================================================================

// Reply is the text rendered for one prompt, already classified.
type Reply struct {
	Kind     Kind
	Text     string
	Duration time.Duration
}
