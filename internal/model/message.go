// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the label shown in front of a message.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of the chat log.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time

	// Assistant messages only.
	Kind     Kind
	Duration time.Duration
}

// NewUserMessage creates a message for a submitted prompt.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates a message for a classified reply.
func NewAssistantMessage(reply Reply) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Content:   reply.Text,
		Timestamp: time.Now(),
		Kind:      reply.Kind,
		Duration:  reply.Duration,
	}
}

// IsUser reports whether the message came from the user.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsFailure reports whether an assistant message carries a placeholder.
func (m *Message) IsFailure() bool {
	return m.Role == RoleAssistant && m.Kind.IsFailure()
}

// generateID returns a short random hex id for rendering keys.
func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return "msg_" + hex.EncodeToString(b)
}
