// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"github.com/innerlog/innerlog-tui/internal/model"
	"github.com/innerlog/innerlog-tui/internal/speech"
)

// =============================================================================
// REQUEST STATE
// =============================================================================

// RequestState tracks the single in-flight AI request slot. At most one of
// AwaitingAIResponse/AwaitingSummary is ever active: this flag is the sole
// admission-control mechanism preventing concurrent AI calls.
type RequestState int

const (
	RequestIdle RequestState = iota
	AwaitingAIResponse
	AwaitingSummary
)

// String returns the string representation of the request state.
func (s RequestState) String() string {
	switch s {
	case AwaitingAIResponse:
		return "awaiting-ai-response"
	case AwaitingSummary:
		return "awaiting-summary"
	default:
		return "idle"
	}
}

// =============================================================================
// STATE SNAPSHOT
// =============================================================================

// State is the observable session snapshot published to the presentation
// layer after every mutation. It is a value copy: the presentation layer
// can hold it across frames without racing the controller.
type State struct {
	Messages     []model.Message
	RequestState RequestState

	SpeechState speech.State
	Modes       speech.Modes

	PendingSummary      string
	IsGeneratingSummary bool
	IsSavingEntry       bool

	PendingTranscript  string
	IsSavingTranscript bool

	LastError       string
	LastSaveSuccess string
}

// Busy reports whether an AI request is in flight.
func (s State) Busy() bool {
	return s.RequestState != RequestIdle
}

// LastMessage returns the newest message, if any.
func (s State) LastMessage() (model.Message, bool) {
	if len(s.Messages) == 0 {
		return model.Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}
