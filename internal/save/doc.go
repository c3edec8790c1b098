// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package save persists accepted journal entries and transcripts.
//
// FileSaver writes timestamped Markdown entries and plain-text transcripts
// under the configured journal directory, optionally sealing them with
// AES-256-GCM (PBKDF2-SHA-256 key derivation) since journals hold private
// writing.
//
// The Saver interface is the contract the conversation controller sees: it
// hands over formatted text and learns only (location, error). How and
// where the bytes land is this package's concern alone.
package save
