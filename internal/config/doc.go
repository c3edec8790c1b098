// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for innerlog.
//
// Settings are stored as TOML in ~/.innerlog/config.toml with built-in
// defaults and environment variable overrides (INNERLOG_API_KEY,
// INNERLOG_PROVIDER, INNERLOG_MODEL, INNERLOG_JOURNAL_DIR,
// INNERLOG_PASSPHRASE).
//
// # Key Types
//
//   - Config: Full on-disk configuration with sections
//   - Settings: Flat read-only snapshot consumed by the conversation core
//   - Watcher: fsnotify-based change stream emitting reloaded snapshots
//
// # Usage
//
// Read the current snapshot:
//
//	settings := config.Global().Snapshot()
//
// React to edits of the config file:
//
//	w, err := config.NewWatcher(path, 0)
//	for snap := range w.Changes() { ... }
package config
