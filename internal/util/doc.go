// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers.
//
// # Key Functions
//
// String utilities (UTF-8 and display-width aware):
//   - TruncateRunes: rune-count truncation with ellipsis
//   - TruncateWidth: terminal-column truncation, CJK aware
//   - StringWidth, PadRight: display-width measurement and padding
//
// File operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	display := util.TruncateWidth(longTitle, 50)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
