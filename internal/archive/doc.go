// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive catalogs saved journal artifacts in SQLite.
//
// Only exported artifacts are recorded: the id, kind, title, and file
// location of each accepted journal entry or transcript. The conversation
// log itself is never persisted; a session that is not exported leaves no
// trace here.
//
// WrapSaver decorates a save.Saver so the catalog stays in sync with what
// actually reaches disk.
package archive
