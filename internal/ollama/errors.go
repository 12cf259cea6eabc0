// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a failed model invocation.
type ClientError struct {
	Type    ErrorType
	Message string
	// Detail is the diagnostic text shown to the user: trimmed stderr for a
	// model failure, the launch error text for an unavailable tool.
	Detail string
	Cause  error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type so wrapped instances compare equal.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeEmptyResponse
	ErrTypeModelFailure
	ErrTypeTimeout
	ErrTypeUnavailable
	ErrTypeCanceled
)

// Sentinel errors for errors.Is checks.
var (
	ErrEmptyResponse = &ClientError{Type: ErrTypeEmptyResponse, Message: "model returned empty response"}
	ErrModelFailure  = &ClientError{Type: ErrTypeModelFailure, Message: "model exited with an error"}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "model call timed out"}
	ErrUnavailable   = &ClientError{Type: ErrTypeUnavailable, Message: "model tool unavailable"}
	ErrCanceled      = &ClientError{Type: ErrTypeCanceled, Message: "model call canceled"}
)

// TypeOf returns the ErrorType carried by err, or ErrTypeUnknown.
func TypeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	return TypeOf(err) == ErrTypeTimeout
}

// IsUnavailable reports whether the tool could not be launched.
func IsUnavailable(err error) bool {
	return TypeOf(err) == ErrTypeUnavailable
}
