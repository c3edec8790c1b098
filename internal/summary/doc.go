// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package summary turns a conversation into a formatted journal entry.
//
// The workflow builds a single formatting request from the output-format
// instructions plus the rendered conversation, issues it through the AI
// coordinator, and then walks the generated entry through an explicit
// accept/reject/save lifecycle:
//
//	Idle → Generating → Pending → (accept) Saving → Idle
//	                           ↘ (reject) Idle
//
// Save failure and save cancellation are deliberately indistinguishable:
// both clear the pending entry without surfacing an error.
package summary
