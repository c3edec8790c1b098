// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/conversation"
	"github.com/innerlog/innerlog-tui/internal/save"
	"github.com/innerlog/innerlog-tui/internal/ui/styles"
)

// =============================================================================
// VIEW FOCUS
// =============================================================================

// Focus represents which surface currently receives key input.
type Focus int

const (
	FocusComposing Focus = iota // Typing in the input field
	FocusReview                 // Reviewing a pending journal entry
	FocusHelp                   // Help overlay visible
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the journaling chat view.
//
// The model never mutates session state directly: every action goes through
// the conversation controller via a command, and the resulting StateMsg
// snapshot is the single source of truth for rendering.
type Model struct {
	// Collaborators
	ctrl     *conversation.Controller
	saver    save.Saver
	settings <-chan config.Settings // nil when no watcher is wired

	// Styling
	theme    *styles.Theme
	markdown *glamour.TermRenderer

	// Session snapshot
	snap conversation.State

	// Dimensions
	width  int
	height int

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// View state
	focus Focus
}

// New creates a new chat model around the controller and saver.
func New(theme *styles.Theme, ctrl *conversation.Controller, saver save.Saver, settings <-chan config.Settings) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What's on your mind?"
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.FrameDuration(),
	}
	sp.Style = theme.Spinner

	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		md = nil // fall back to plain text rendering
	}

	return Model{
		ctrl:     ctrl,
		saver:    saver,
		settings: settings,
		theme:    theme,
		markdown: md,
		snap:     ctrl.State(),
		viewport: vp,
		input:    ti,
		spinner:  sp,
		keyMap:   DefaultKeyMap(),
		focus:    FocusComposing,
	}
}

// Init starts the cursor blink, the spinner, and the settings watcher drain.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.settings != nil {
		cmds = append(cmds, WaitForSettingsCmd(m.settings))
	}
	return tea.Batch(cmds...)
}

// busy reports whether an AI request is currently in flight.
func (m Model) busy() bool {
	return m.snap.Busy()
}

// renderMarkdown renders entry text through glamour, falling back to the
// raw text when the renderer is unavailable.
func (m Model) renderMarkdown(text string) string {
	if m.markdown == nil {
		return text
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		return text
	}
	return out
}

// timestampFormat matches the transcript export format for visual parity.
const timestampFormat = "2006-01-02 15:04"

func formatTimestamp(t time.Time) string {
	return t.Format(timestampFormat)
}
