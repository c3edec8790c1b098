// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the innerlog TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection, and the Theme detects the terminal's color profile through
termenv at startup.

# Color System (colors.go)

Primary accents:

  - Lavender - assistant messages and selections
  - Teal - brand color, user highlights, shortcut keys
  - Sage - success states and save confirmations
  - Amber - pending-review states
  - Rose - errors

Semantic tokens cover the message bubbles (UserBubble*, AssistantBubble*,
SystemBubble*), layered surfaces (Surface, SurfaceDim, Overlay), and the
text hierarchy (TextPrimary, TextSecondary, TextMuted).

# Theme (theme.go)

Theme holds every configured lipgloss.Style used by the chat view: header,
bubbles, input area, status bar, review overlay, and notices. Construct one
with NewTheme and share it.

# Accessibility

Status rendering always pairs color with an ASCII shape indicator
(StatusIndicators) so state is readable without color vision. High-contrast
color pairs back the Render* helpers.

# Animations (animations.go)

SpinnerConfig defines the ASCII spinner frames used for in-flight AI
requests, entry generation, and speech listening.
*/
package styles
