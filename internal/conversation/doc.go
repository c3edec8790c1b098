// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation orchestrates a journaling chat session.
//
// The Controller is the single entry point the presentation layer talks to.
// It owns the message log, the in-flight request slot, the speech
// coordinator, and the journal-entry workflow, and publishes an immutable
// State snapshot to its listener after every mutation.
//
// # Key Types
//
//   - Controller: session orchestrator; all operations go through it
//   - State: observable value snapshot published after each mutation
//   - RequestState: admission flag for the single in-flight AI request
//
// # Usage
//
//	ctrl := conversation.New(conversation.Options{
//		Client:   ai.NewHTTPClient(),
//		Settings: func() config.Settings { return config.Global().Snapshot() },
//		Listener: func(s conversation.State) { program.Send(stateMsg{s}) },
//	})
//	ctrl.SendMessage(ctx, "Today was a long day.")
//
// Blocking operations (SendMessage, SaveJournalEntry, StartListening) are
// synchronous; run them from a goroutine or command and let the listener
// deliver updated snapshots.
package conversation
