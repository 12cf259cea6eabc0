// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// All colors are AdaptiveColor: Dark is the sidebar's own palette, Light
// is its counterpart for light terminals.

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Background - Window background
var Background = lipgloss.AdaptiveColor{Light: "#F4F6FA", Dark: "#151a27"}

// Panel - Chat log surface
var Panel = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1d2433"}

// InputSurface - Text input background
var InputSurface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#222b3b"}

// BorderDim - Separators and the processing bubble outline
var BorderDim = lipgloss.AdaptiveColor{Light: "#CBD5E0", Dark: "#4a5568"}

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Accent - Brand color: focus ring, assistant label, send button
var Accent = lipgloss.AdaptiveColor{Light: "#4d6b80", Dark: "#5f7e97"}

// AccentBright - Hover/active accent
var AccentBright = lipgloss.AdaptiveColor{Light: "#3c5a70", Dark: "#7b97b2"}

// Disabled - Send button while a request is in flight
var Disabled = lipgloss.AdaptiveColor{Light: "#A0AEC0", Dark: "#3c475b"}

// DisabledText - Label on a disabled control
var DisabledText = lipgloss.AdaptiveColor{Light: "#718096", Dark: "#7a8599"}

// Warning - Placeholder replies (empty, timeout, model error)
var Warning = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6AD55"}

// Danger - Tool unavailable
var Danger = lipgloss.AdaptiveColor{Light: "#C53030", Dark: "#FC8181"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - General text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1A202C", Dark: "#e2e8f0"}

// TextMessage - Message body text
var TextMessage = lipgloss.AdaptiveColor{Light: "#2D3748", Dark: "#d6deeb"}

// TextSecondary - Labels, subtitle, processing indicator
var TextSecondary = lipgloss.AdaptiveColor{Light: "#4A5568", Dark: "#a0aec0"}

// TextInverse - Text on the accent color
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#151a27"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// UserBubbleBg - Background of the user's message
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#EDF2F7", Dark: "#2d3748"}

// AssistantBubbleBg - Background of replies and the processing indicator
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F7FAFC", Dark: "#21283b"}
