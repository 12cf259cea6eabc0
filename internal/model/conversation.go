// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sync"

// MaxMessages bounds the transcript. Older messages are dropped first.
const MaxMessages = 500

// Transcript is the overlay's chat log. It is safe for concurrent use,
// though in practice only the UI loop touches it.
type Transcript struct {
	mu       sync.RWMutex
	messages []*Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{messages: make([]*Message, 0, 16)}
}

// AddUser appends a user prompt and returns it.
func (t *Transcript) AddUser(content string) *Message {
	msg := NewUserMessage(content)
	t.add(msg)
	return msg
}

// AddReply appends an assistant reply and returns it.
func (t *Transcript) AddReply(reply Reply) *Message {
	msg := NewAssistantMessage(reply)
	t.add(msg)
	return msg
}

func (t *Transcript) add(msg *Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	if over := len(t.messages) - MaxMessages; over > 0 {
		t.messages = append([]*Message(nil), t.messages[over:]...)
	}
}

// Messages returns a copy of the log in display order.
func (t *Transcript) Messages() []*Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the newest message, or nil.
func (t *Transcript) Last() *Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Clear drops every message.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = t.messages[:0]
}
