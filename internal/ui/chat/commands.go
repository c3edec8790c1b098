// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the Bubble Tea commands that drive the conversation
// controller. Controller operations are synchronous, so each command runs
// one operation on the Bubble Tea command goroutine and finishes by
// delivering the fresh session snapshot.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/conversation"
	"github.com/innerlog/innerlog-tui/internal/save"
)

// =============================================================================
// CONTROLLER COMMANDS
// =============================================================================

// SendMessageCmd sends the user's text and blocks until the reply resolves.
func SendMessageCmd(ctrl *conversation.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		ctrl.SendMessage(context.Background(), text)
		return StateMsg{State: ctrl.State()}
	}
}

// GenerateEntryCmd asks the controller to format the conversation as a
// journal entry and blocks until the draft is pending (or failed).
func GenerateEntryCmd(ctrl *conversation.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.SaveJournalEntry(context.Background())
		return StateMsg{State: ctrl.State()}
	}
}

// ListenCmd blocks on one utterance of speech input. Recognized text flows
// through the controller as if it had been typed.
func ListenCmd(ctrl *conversation.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.StartListening(context.Background())
		return StateMsg{State: ctrl.State()}
	}
}

// RefreshCmd fetches the current snapshot without mutating anything.
func RefreshCmd(ctrl *conversation.Controller) tea.Cmd {
	return func() tea.Msg {
		return StateMsg{State: ctrl.State()}
	}
}

// =============================================================================
// SAVE COMMANDS
// =============================================================================

// SaveEntryCmd writes an accepted journal entry through the saver and
// reports the outcome back to the controller.
func SaveEntryCmd(ctrl *conversation.Controller, saver save.Saver, content string) tea.Cmd {
	return func() tea.Msg {
		location, err := saver.Save(save.KindEntry, content)
		ctrl.OnFileSaved(err == nil, location)
		return EntrySavedMsg{
			State:    ctrl.State(),
			Location: location,
			Err:      err,
		}
	}
}

// SaveTranscriptCmd writes a pending transcript through the saver and
// reports the outcome back to the controller.
func SaveTranscriptCmd(ctrl *conversation.Controller, saver save.Saver, content string) tea.Cmd {
	return func() tea.Msg {
		location, err := saver.Save(save.KindTranscript, content)
		ctrl.OnTranscriptSaved(err == nil, location)
		return TranscriptSavedMsg{
			State:    ctrl.State(),
			Location: location,
			Err:      err,
		}
	}
}

// =============================================================================
// SETTINGS COMMANDS
// =============================================================================

// WaitForSettingsCmd blocks until the settings watcher reports a change.
// Update re-issues it after each delivery so the stream stays drained.
func WaitForSettingsCmd(changes <-chan config.Settings) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-changes
		if !ok {
			return settingsClosedMsg{}
		}
		return SettingsChangedMsg{Settings: snap}
	}
}
