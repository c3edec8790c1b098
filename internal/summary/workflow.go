// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package summary turns a conversation into a formatted journal entry.
package summary

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/innerlog/innerlog-tui/internal/ai"
	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNothingToSummarize is returned for an empty conversation log.
	ErrNothingToSummarize = errors.New("no conversation to summarize")

	// ErrGenerationInProgress is returned when a generation is already running.
	ErrGenerationInProgress = errors.New("summary generation already in progress")

	// ErrSummaryPending is returned while a generated entry awaits accept/reject.
	ErrSummaryPending = errors.New("a summary is already awaiting review")
)

// =============================================================================
// PHASE
// =============================================================================

// Phase tracks the pending-summary lifecycle:
// Idle → Generating → Pending → (accept) Saving → Idle, or (reject) Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGenerating
	PhasePending
	PhaseSaving
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseGenerating:
		return "generating"
	case PhasePending:
		return "pending"
	case PhaseSaving:
		return "saving"
	default:
		return "idle"
	}
}

// =============================================================================
// WORKFLOW
// =============================================================================

// Workflow manages the generate/accept/reject/save lifecycle of a journal
// entry built from the conversation.
type Workflow struct {
	mu    sync.Mutex
	coord *ai.Coordinator
	phase Phase
	text  string // generated entry, set while Pending or Saving
}

// NewWorkflow creates a workflow around the given AI coordinator.
func NewWorkflow(coord *ai.Coordinator) *Workflow {
	return &Workflow{coord: coord}
}

// Phase returns the current lifecycle phase.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// PendingText returns the generated entry awaiting review, or empty.
func (w *Workflow) PendingText() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

// BuildRequest renders the formatting request sent to the AI: the output
// format instructions followed by the conversation, one "You:"/"AI:" block
// per turn with a blank line between turns.
func BuildRequest(messages []model.Message, settings config.Settings) string {
	instructions := settings.FormatInstructions
	if instructions == "" {
		instructions = config.DefaultFormatInstructions
	}

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, msg.Role.DisplayName()+": "+msg.Content)
	}

	return instructions + strings.Join(blocks, "\n\n")
}

// Generate builds the formatting request, appends it to a copy of the
// history, and issues it through the coordinator.
//
// Preconditions: non-empty log, no generation running, nothing pending.
// Violations fail before any AI call and leave nothing pending. Credential
// and provider failures propagate from the coordinator unchanged; on any
// failure the phase returns to Idle with the pending text unset.
func (w *Workflow) Generate(ctx context.Context, messages []model.Message, settings config.Settings) (string, error) {
	w.mu.Lock()
	if len(messages) == 0 {
		w.mu.Unlock()
		return "", ErrNothingToSummarize
	}
	switch w.phase {
	case PhaseGenerating:
		w.mu.Unlock()
		return "", ErrGenerationInProgress
	case PhasePending, PhaseSaving:
		w.mu.Unlock()
		return "", ErrSummaryPending
	}
	w.phase = PhaseGenerating
	w.mu.Unlock()

	request := model.NewUserMessage(BuildRequest(messages, settings))
	history := make([]model.Message, 0, len(messages)+1)
	history = append(history, messages...)
	history = append(history, request)

	text, err := w.coord.RequestReply(ctx, history, settings)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.phase = PhaseIdle
		w.text = ""
		return "", err
	}
	w.phase = PhasePending
	w.text = text
	return text, nil
}

// Accept moves the entry into the Saving phase. The caller then hands the
// text to the save collaborator and reports back via SaveCompleted.
func (w *Workflow) Accept(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.text = text
	w.phase = PhaseSaving
}

// Reject discards the generated entry and returns to Idle.
func (w *Workflow) Reject() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.text = ""
	w.phase = PhaseIdle
}

// SaveCompleted finishes the lifecycle after the save collaborator reports.
//
// Success returns a user-facing notice (naming the location when given).
// Failure and cancellation are indistinguishable by design: both clear the
// pending entry silently and return an empty notice; the collaborator owns
// its own error reporting.
func (w *Workflow) SaveCompleted(success bool, location string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.text = ""
	w.phase = PhaseIdle

	if !success {
		return ""
	}
	if location != "" {
		return "Journal entry saved to " + location
	}
	return "Journal entry saved"
}
