// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript renders the conversation log as plain text for export.
package transcript

import (
	"strings"

	"github.com/innerlog/innerlog-tui/internal/model"
)

// SeparatorWidth is the width of the rule under the header.
const SeparatorWidth = 40

// Header is the first line of every transcript.
const Header = "Conversation Transcript"

// timeLayout formats the per-message timestamp line.
const timeLayout = "2006-01-02 15:04"

// Build renders the messages as a human-readable transcript.
//
// Pure function of the log: identical inputs produce byte-identical output.
// Layout is one header line, one separator line, one blank line, then for
// each message a timestamp line, the content, and a blank line.
func Build(messages []model.Message) string {
	var sb strings.Builder

	sb.WriteString(Header + "\n")
	sb.WriteString(strings.Repeat("=", SeparatorWidth) + "\n")
	sb.WriteString("\n")

	for _, msg := range messages {
		sb.WriteString("[" + msg.Timestamp.Format(timeLayout) + "] " + msg.Role.DisplayName() + ":\n")
		sb.WriteString(msg.Content + "\n")
		sb.WriteString("\n")
	}

	return sb.String()
}
