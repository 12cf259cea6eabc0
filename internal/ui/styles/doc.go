// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the sidebar overlay.

The palette is a dark slate "mountain" scheme: a #151a27 background, a
#5f7e97 slate-blue accent, and soft grey-blue text. All colors use Lip
Gloss AdaptiveColor so a light terminal gets a readable counterpart.

# Theme

	theme := styles.NewTheme("auto") // or "dark", "light"
	header := theme.WelcomeTitle.Width(40).Render("AI Assistant")

NewTheme asks the terminal for its background through termenv when the
mode is "auto" and pins lipgloss to the chosen background otherwise.

# Spinners

DotsSpinner and LineSpinner are frame sets for the processing indicator.
*/
package styles
