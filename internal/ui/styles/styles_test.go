// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTheme_ForcedModes(t *testing.T) {
	dark := NewTheme("dark")
	assert.True(t, dark.IsDark)

	light := NewTheme("LIGHT")
	assert.False(t, light.IsDark)
}

func TestNewTheme_StylesRender(t *testing.T) {
	theme := NewTheme("dark")

	out := theme.WelcomeTitle.Render("AI Assistant")
	assert.Contains(t, out, "AI Assistant")

	out = theme.SendButtonOff.Render("...")
	assert.Contains(t, out, "...")
}

func TestSetSize(t *testing.T) {
	theme := NewTheme("dark")
	theme.SetSize(80, 24)

	assert.Equal(t, 80, theme.Width)
	assert.Equal(t, 24, theme.Height)
}

func TestSpinnerConfigDuration(t *testing.T) {
	assert.Equal(t, time.Second/6, DotsSpinner.Duration())
	assert.Equal(t, time.Second/10, LineSpinner.Duration())
	assert.Equal(t, time.Second/10, SpinnerConfig{}.Duration())
}

func TestPalette(t *testing.T) {
	assert.Equal(t, "#151a27", Background.Dark)
	assert.Equal(t, "#5f7e97", Accent.Dark)
}
