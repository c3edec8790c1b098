// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/innerlog/innerlog-tui/internal/model"
)

func fixedMessages() []model.Message {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return []model.Message{
		{ID: "msg_1", Role: model.RoleAssistant, Content: "How was your day?", Timestamp: ts},
		{ID: "msg_2", Role: model.RoleUser, Content: "Long but good.", Timestamp: ts.Add(time.Minute)},
	}
}

func TestBuild_Deterministic(t *testing.T) {
	msgs := fixedMessages()
	if Build(msgs) != Build(msgs) {
		t.Error("identical logs must produce byte-identical transcripts")
	}
}

func TestBuild_Layout(t *testing.T) {
	out := Build(fixedMessages())
	lines := strings.Split(out, "\n")

	if lines[0] != Header {
		t.Errorf("first line = %q, want header", lines[0])
	}
	if lines[1] != strings.Repeat("=", SeparatorWidth) {
		t.Errorf("second line should be a %d-wide separator", SeparatorWidth)
	}
	if lines[2] != "" {
		t.Error("third line should be blank")
	}
	if lines[3] != "[2025-03-14 09:26] AI:" {
		t.Errorf("timestamp line = %q", lines[3])
	}
	if lines[4] != "How was your day?" {
		t.Errorf("content line = %q", lines[4])
	}
	if lines[6] != "[2025-03-14 09:27] You:" {
		t.Errorf("second timestamp line = %q", lines[6])
	}
}

func TestBuild_LineCount(t *testing.T) {
	for n := 0; n <= 5; n++ {
		msgs := make([]model.Message, 0, n)
		for i := 0; i < n; i++ {
			msgs = append(msgs, model.Message{
				Role:      model.RoleUser,
				Content:   "single line",
				Timestamp: time.Unix(1700000000, 0),
			})
		}
		out := Build(msgs)
		// Trailing newline means Split yields one trailing empty element.
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		want := 3 + 3*n
		if len(lines) != want {
			t.Errorf("n=%d: line count = %d, want %d", n, len(lines), want)
		}
	}
}

func TestBuild_NoMutation(t *testing.T) {
	msgs := fixedMessages()
	before := msgs[0].Content
	_ = Build(msgs)
	if msgs[0].Content != before {
		t.Error("Build must not mutate its input")
	}
}
