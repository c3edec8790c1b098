// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal journaling REPL.
//
// It mirrors the TUI's session operations through slash commands and uses
// liner for input history and line editing. The REPL is selected when the
// terminal cannot host the full-screen view or when --plain is passed.
package cli
