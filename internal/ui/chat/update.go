// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/innerlog/innerlog-tui/internal/conversation"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages for the chat view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		return m.applySnapshot(msg.State), nil

	case EntrySavedMsg:
		return m.applySnapshot(msg.State), nil

	case TranscriptSavedMsg:
		return m.applySnapshot(msg.State), nil

	case SettingsChangedMsg:
		m.ctrl.ApplySettings(msg.Settings)
		// Keep draining the watcher stream.
		return m, tea.Batch(RefreshCmd(m.ctrl), WaitForSettingsCmd(m.settings))

	case settingsClosedMsg:
		m.settings = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

// applySnapshot stores a fresh controller snapshot and reconciles the view.
func (m Model) applySnapshot(snap conversation.State) Model {
	m.snap = snap
	m.refreshViewport()

	switch {
	case snap.PendingSummary != "":
		m.focus = FocusReview
	case m.focus == FocusReview:
		m.focus = FocusComposing
	}
	return m
}

// refreshViewport re-renders the conversation into the scrollback.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// handleResize recalculates component sizes for the new terminal geometry.
// Layout: header (3 lines) + viewport + input (3 lines) + status (1 line).
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	const headerHeight = 3
	const inputHeight = 3
	const statusHeight = 1

	viewportHeight := msg.Height - headerHeight - inputHeight - statusHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	m.viewport.Width = msg.Width
	m.viewport.Height = viewportHeight
	m.input.Width = msg.Width - 4

	m.refreshViewport()
	return m
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works everywhere.
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	switch m.focus {
	case FocusHelp:
		return m.handleHelpKey(msg)
	case FocusReview:
		return m.handleReviewKey(msg)
	default:
		return m.handleComposingKey(msg)
	}
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Help) || key.Matches(msg, m.keyMap.Cancel) {
		m.focus = FocusComposing
	}
	return m, nil
}

// handleReviewKey handles keys while a generated journal entry awaits
// accept or reject.
func (m Model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Accept):
		text := m.snap.PendingSummary
		m.ctrl.AcceptSummaryAndSave(text)
		m.snap = m.ctrl.State()
		return m, SaveEntryCmd(m.ctrl, m.saver, text)

	case key.Matches(msg, m.keyMap.Reject), key.Matches(msg, m.keyMap.Cancel):
		m.ctrl.RejectSummary()
		return m.applySnapshot(m.ctrl.State()), nil
	}
	return m, nil
}

func (m Model) handleComposingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Help):
		m.focus = FocusHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.busy() {
			return m, nil
		}
		m.input.Reset()
		return m, SendMessageCmd(m.ctrl, text)

	case key.Matches(msg, m.keyMap.Cancel):
		m.ctrl.StopSpeaking()
		m.ctrl.StopListening()
		m.ctrl.ClearError()
		m.ctrl.ClearSaveSuccess()
		return m.applySnapshot(m.ctrl.State()), nil

	case key.Matches(msg, m.keyMap.SaveEntry):
		if m.busy() {
			return m, nil
		}
		return m, GenerateEntryCmd(m.ctrl)

	case key.Matches(msg, m.keyMap.SaveTranscript):
		m.ctrl.SaveChatTranscript()
		snap := m.ctrl.State()
		m.snap = snap
		if snap.PendingTranscript == "" {
			return m, nil
		}
		return m, SaveTranscriptCmd(m.ctrl, m.saver, snap.PendingTranscript)

	case key.Matches(msg, m.keyMap.ClearChat):
		m.ctrl.ClearChat()
		return m.applySnapshot(m.ctrl.State()), nil

	case key.Matches(msg, m.keyMap.ToggleVoiceIn):
		m.ctrl.ToggleInputMode()
		return m.applySnapshot(m.ctrl.State()), nil

	case key.Matches(msg, m.keyMap.ToggleVoiceOut):
		m.ctrl.ToggleOutputMode()
		return m.applySnapshot(m.ctrl.State()), nil

	case key.Matches(msg, m.keyMap.Listen):
		if m.busy() || !m.snap.Modes.InputIsSpeech {
			return m, nil
		}
		return m, ListenCmd(m.ctrl)

	case key.Matches(msg, m.keyMap.Up),
		key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp),
		key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateComponents forwards unrecognized messages to the child components.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
