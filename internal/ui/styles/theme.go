// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components of the overlay.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// CONTAINER STYLES
	// ==========================================================================

	App   lipgloss.Style
	Panel lipgloss.Style

	// ==========================================================================
	// WELCOME HEADER
	// ==========================================================================

	WelcomeTitle    lipgloss.Style
	WelcomeSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantBubble lipgloss.Style
	AssistantLabel  lipgloss.Style
	MessageText     lipgloss.Style
	WarningText     lipgloss.Style
	DangerText      lipgloss.Style
	Thinking        lipgloss.Style
	Timestamp       lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputBox      lipgloss.Style
	SendButton    lipgloss.Style
	SendButtonOff lipgloss.Style
	Hint          lipgloss.Style
}

// NewTheme creates a theme for mode, one of "auto", "dark" or "light".
// "auto" asks the terminal for its background; anything unrecognized is
// treated as "auto".
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	// AdaptiveColor resolves against lipgloss's notion of the background.
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().
		Background(Background).
		Foreground(TextPrimary)

	t.Panel = lipgloss.NewStyle().
		Padding(0, 1)

	// Welcome header
	t.WelcomeTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent).
		Align(lipgloss.Center).
		MarginTop(1)

	t.WelcomeSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Align(lipgloss.Center).
		MarginBottom(1)

	// Messages: a thick accent bar on the left marks the speaker.
	t.UserBubble = lipgloss.NewStyle().
		Background(UserBubbleBg).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(Accent).
		Padding(0, 1).
		MarginTop(1)

	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.AssistantBubble = lipgloss.NewStyle().
		Background(AssistantBubbleBg).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(TextSecondary).
		Padding(0, 1).
		MarginTop(1)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	t.MessageText = lipgloss.NewStyle().
		Foreground(TextMessage)

	t.WarningText = lipgloss.NewStyle().
		Foreground(Warning)

	t.DangerText = lipgloss.NewStyle().
		Foreground(Danger)

	t.Thinking = lipgloss.NewStyle().
		Italic(true).
		Foreground(TextSecondary).
		Background(AssistantBubbleBg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDim).
		Padding(0, 1).
		MarginTop(1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(DisabledText)

	// Input area
	t.InputBox = lipgloss.NewStyle().
		Background(InputSurface).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)

	t.SendButton = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Accent).
		Padding(0, 2).
		MarginLeft(1)

	t.SendButtonOff = t.SendButton.
		Foreground(DisabledText).
		Background(Disabled)

	t.Hint = lipgloss.NewStyle().
		Foreground(DisabledText).
		Italic(true)
}

// SetSize updates the theme dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
