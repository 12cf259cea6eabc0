// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSuccess, "success"},
		{KindEmpty, "empty"},
		{KindModelError, "model_error"},
		{KindTimeout, "timeout"},
		{KindUnavailable, "unavailable"},
		{KindCanceled, "canceled"},
		{Kind(42), "unknown"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.kind.String())
	}
}

func TestKind_IsFailure(t *testing.T) {
	assert.False(t, KindSuccess.IsFailure())
	for _, k := range []Kind{KindEmpty, KindModelError, KindTimeout, KindUnavailable, KindCanceled} {
		assert.True(t, k.IsFailure(), k.String())
	}
}

func TestRole_DisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "Assistant", RoleAssistant.DisplayName())
	assert.Equal(t, "other", Role("other").DisplayName())
}

func TestNewAssistantMessage(t *testing.T) {
	msg := NewAssistantMessage(Reply{Kind: KindTimeout, Text: "slow", Duration: time.Second})

	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "slow", msg.Content)
	assert.Equal(t, time.Second, msg.Duration)
	assert.True(t, msg.IsFailure())
	assert.False(t, msg.IsUser())
	assert.NotEmpty(t, msg.ID)
}

func TestTranscript(t *testing.T) {
	tr := NewTranscript()
	assert.Nil(t, tr.Last())

	tr.AddUser("hello")
	tr.AddReply(Reply{Kind: KindSuccess, Text: "hi there"})

	require.Equal(t, 2, tr.Len())
	msgs := tr.Messages()
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hi there", tr.Last().Content)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)

	tr.Clear()
	assert.Equal(t, 0, tr.Len())
}

func TestTranscript_Bounded(t *testing.T) {
	tr := NewTranscript()
	for i := 0; i < MaxMessages+10; i++ {
		tr.AddUser("x")
	}
	assert.Equal(t, MaxMessages, tr.Len())
}
