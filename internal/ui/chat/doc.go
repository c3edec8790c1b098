// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat view for the journaling session.

The view is a thin presentation layer over conversation.Controller: key
presses translate into controller operations run as commands, and each
command finishes by delivering a fresh conversation.State snapshot that the
view renders. The model never holds session state of its own.

# Key Types

  - Model: the Bubble Tea model (viewport scrollback, text input, spinner)
  - Focus: which surface receives keys (composing, entry review, help)
  - StateMsg: a controller snapshot delivered after an operation

# Layout

Header, scrollable message area, input line, and a status bar showing the
speech mode toggles and shortcuts. A pending journal entry takes over the
screen as a centered review overlay rendered through glamour.

# Usage

	m := chat.New(styles.NewTheme(), ctrl, saver, watcherChanges)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
