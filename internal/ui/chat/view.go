// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-sidebar/internal/model"
	"github.com/jeranaias/rigrun-sidebar/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

// renderOverlay stacks the chat log, the input row and the hint line.
func (m Model) renderOverlay() string {
	return m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderInputRow(),
		m.renderHint(),
	))
}

// renderLog builds the full chat log content for the viewport.
func (m Model) renderLog() string {
	parts := []string{m.renderWelcome()}
	for _, msg := range m.transcript.Messages() {
		parts = append(parts, m.renderMessage(msg))
	}
	if m.processing {
		parts = append(parts, m.renderThinking())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// bubbleWidth is the outer width of a message bubble.
func (m Model) bubbleWidth() int {
	w := m.width - 2
	if w < 10 {
		w = 10
	}
	return w
}

// bubbleTextWidth is the wrap width inside a bubble: the left bar and the
// horizontal padding take three columns.
func (m Model) bubbleTextWidth() int {
	w := m.bubbleWidth() - 3
	if w < 8 {
		w = 8
	}
	return w
}

// =============================================================================
// CHAT LOG
// =============================================================================

func (m Model) renderWelcome() string {
	title := m.theme.WelcomeTitle.Width(m.width).Render("AI Assistant")
	subtitle := m.theme.WelcomeSubtitle.Width(m.width).Render("Ready to help with questions and analysis")
	return lipgloss.JoinVertical(lipgloss.Center, title, subtitle)
}

func (m Model) renderMessage(msg *model.Message) string {
	if msg.IsUser() {
		label := m.theme.UserLabel.Render(msg.Role.DisplayName() + ":")
		body := m.theme.MessageText.Render(msg.Content)
		return m.theme.UserBubble.Width(m.bubbleWidth() - 1).Render(label + " " + body)
	}

	label := m.theme.AssistantLabel.Render(msg.Role.DisplayName() + ":")
	if msg.Duration > 0 {
		label += m.theme.Timestamp.Render(fmt.Sprintf(" %.1fs", msg.Duration.Seconds()))
	}
	return m.theme.AssistantBubble.Width(m.bubbleWidth() - 1).Render(label + "\n" + m.renderReplyBody(msg))
}

// renderReplyBody renders model output as markdown when enabled and keeps
// placeholder texts plain so their emoji and wording survive untouched.
func (m Model) renderReplyBody(msg *model.Message) string {
	switch msg.Kind {
	case model.KindSuccess:
		if m.markdown && m.renderer != nil {
			return m.renderer.Render(msg.Content)
		}
		return m.theme.MessageText.Render(msg.Content)
	case model.KindUnavailable:
		return m.theme.DangerText.Render(msg.Content)
	default:
		return m.theme.WarningText.Render(msg.Content)
	}
}

func (m Model) renderThinking() string {
	text := ThinkingText + " " + m.spinner.View()
	return m.theme.Thinking.Width(m.bubbleWidth() - 2).Render(text)
}

// =============================================================================
// INPUT AREA
// =============================================================================

func (m Model) renderInputRow() string {
	box := m.theme.InputBox.Render(m.input.View())

	button := m.theme.SendButton.Render(SendLabel)
	if m.processing {
		button = m.theme.SendButtonOff.Render(BusyLabel)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, box, button)
}

func (m Model) renderHint() string {
	left := m.help.ShortHelpView(m.keyMap.ShortHelp())
	if m.statusMsg != "" {
		left = m.statusMsg
	}
	line := left
	if m.modelName != "" {
		line = m.modelName + "  " + left
	}
	return m.theme.Hint.Render(util.TruncateWidth(line, m.width))
}

// =============================================================================
// MARKDOWN
// =============================================================================

// markdownRenderer wraps a glamour renderer built for one wrap width.
type markdownRenderer struct {
	width int
	r     *glamour.TermRenderer
}

// newMarkdownRenderer returns nil when glamour cannot be initialized;
// Render on a nil renderer returns its input unchanged.
func newMarkdownRenderer(width int, dark bool) *markdownRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return &markdownRenderer{width: width, r: r}
}

// Render converts markdown to styled terminal text.
func (r *markdownRenderer) Render(s string) string {
	if r == nil || r.r == nil {
		return s
	}
	out, err := r.r.Render(s)
	if err != nil {
		return s
	}
	return strings.Trim(out, "\n")
}
