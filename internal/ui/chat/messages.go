// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - Session: fresh controller snapshots after an operation completed
//   - Saving: results of journal entry and transcript writes
//   - Settings: live configuration changes from the settings watcher
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/conversation"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// StateMsg delivers a fresh session snapshot after a controller operation
// finished. Every command that touches the controller ends by sending one.
type StateMsg struct {
	State conversation.State
}

// =============================================================================
// SAVE MESSAGES
// =============================================================================

// EntrySavedMsg reports the outcome of writing an accepted journal entry.
// The controller has already been notified; the snapshot reflects it.
type EntrySavedMsg struct {
	State    conversation.State
	Location string
	Err      error
}

// TranscriptSavedMsg reports the outcome of writing a transcript export.
type TranscriptSavedMsg struct {
	State    conversation.State
	Location string
	Err      error
}

// =============================================================================
// SETTINGS MESSAGES
// =============================================================================

// SettingsChangedMsg delivers a settings snapshot picked up by the config
// watcher while the program is running.
type SettingsChangedMsg struct {
	Settings config.Settings
}

// settingsClosedMsg signals that the settings watcher channel closed.
type settingsClosedMsg struct{}
