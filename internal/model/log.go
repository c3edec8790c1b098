// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation log.
package model

// =============================================================================
// LOG TYPE
// =============================================================================

// Log holds the ordered message history of a single conversation.
//
// The log is append-only: messages are never reordered, edited, or removed
// individually. Reset replaces the whole sequence with a single seed message
// and is the only destructive operation.
//
// Log is not safe for concurrent use; the owning controller serializes
// access.
type Log struct {
	messages []Message
}

// NewLog creates a log seeded with the given message.
func NewLog(seed Message) *Log {
	return &Log{messages: []Message{seed}}
}

// NewEmptyLog creates a log with no messages.
func NewEmptyLog() *Log {
	return &Log{}
}

// Append adds a message to the end of the log.
func (l *Log) Append(msg Message) {
	l.messages = append(l.messages, msg)
}

// All returns a copy of the full ordered message sequence.
// The copy keeps callers from mutating the log through the returned slice.
func (l *Log) All() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.messages)
}

// IsEmpty returns true if there are no messages.
func (l *Log) IsEmpty() bool {
	return len(l.messages) == 0
}

// Last returns the most recent message and true, or a zero Message and
// false when the log is empty.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// Reset replaces the sequence with a single seed message.
func (l *Log) Reset(seed Message) {
	l.messages = []Message{seed}
}
