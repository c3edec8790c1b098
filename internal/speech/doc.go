// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech coordinates speech input/output around an external engine.
//
// The coordinator owns a small state machine (Idle, Listening, Speaking)
// plus the user's input/output mode preferences, and delegates all audio
// work to an injected Engine. Listening and Speaking are mutually
// exclusive and every operation ends back at Idle.
//
// # Key Types
//
//   - Engine: External collaborator for recognition and synthesis
//   - Coordinator: State machine and mode toggles
//   - NoopEngine: Headless stand-in with recognition unavailable
package speech
