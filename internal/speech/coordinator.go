// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech coordinates speech input/output around an external engine.
package speech

import (
	"context"
	"sync"

	"github.com/innerlog/innerlog-tui/internal/config"
)

// =============================================================================
// SPEECH STATE
// =============================================================================

// State represents the current speech activity.
type State int

const (
	StateIdle      State = iota // No speech activity
	StateListening              // Recognition in progress
	StateSpeaking               // Synthesis in progress
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateSpeaking:
		return "speaking"
	default:
		return "idle"
	}
}

// Modes describes the user's input/output preferences. Modes are independent
// of State: they say what the user wants, not what is happening right now.
type Modes struct {
	InputIsSpeech  bool
	OutputIsSpeech bool
}

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator manages the listening/speaking state machine and mode toggles,
// delegating actual audio work to the engine.
//
// Listening and Speaking are mutually exclusive: each entry point checks the
// current state before transitioning, and every path ends back at Idle.
type Coordinator struct {
	mu     sync.Mutex
	engine Engine
	state  State
	modes  Modes
}

// NewCoordinator creates a coordinator around the given engine.
func NewCoordinator(engine Engine) *Coordinator {
	return &Coordinator{engine: engine}
}

// State returns the current speech activity state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Modes returns the current input/output mode preferences.
func (c *Coordinator) Modes() Modes {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modes
}

// RecognitionAvailable reports whether the engine can take speech input.
func (c *Coordinator) RecognitionAvailable() bool {
	return c.engine.RecognitionAvailable()
}

// SetVoiceProvider reconfigures the engine's synthesis voice backend.
func (c *Coordinator) SetVoiceProvider(provider string) {
	c.engine.SetVoiceProvider(provider)
}

// =============================================================================
// MODE TOGGLES
// =============================================================================

// ToggleInputMode flips the speech-input preference. Turning speech input
// off while listening forces the transition back to Idle.
func (c *Coordinator) ToggleInputMode() {
	c.mu.Lock()
	c.modes.InputIsSpeech = !c.modes.InputIsSpeech
	stopNeeded := !c.modes.InputIsSpeech && c.state == StateListening
	if stopNeeded {
		c.state = StateIdle
	}
	c.mu.Unlock()

	if stopNeeded {
		c.engine.StopListening()
	}
}

// ToggleOutputMode flips the speech-output preference. Turning speech output
// off while speaking forces the transition back to Idle.
func (c *Coordinator) ToggleOutputMode() {
	c.mu.Lock()
	c.modes.OutputIsSpeech = !c.modes.OutputIsSpeech
	stopNeeded := !c.modes.OutputIsSpeech && c.state == StateSpeaking
	if stopNeeded {
		c.state = StateIdle
	}
	c.mu.Unlock()

	if stopNeeded {
		c.engine.StopSpeaking()
	}
}

// =============================================================================
// LISTENING
// =============================================================================

// Listen starts recognition and blocks until one utterance is recognized.
//
// Valid only from Idle: called while listening or speaking it is a no-op
// returning empty text. An absent recognition engine fails with
// ErrSpeechUnavailable before any state change. Recognition errors are
// wrapped as *SpeechError and the state is forced back to Idle either way.
func (c *Coordinator) Listen(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return "", nil
	}
	if !c.engine.RecognitionAvailable() {
		c.mu.Unlock()
		return "", ErrSpeechUnavailable
	}
	c.state = StateListening
	c.mu.Unlock()

	text, err := c.engine.StartListening(ctx)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		return "", &SpeechError{Op: "listen", Err: err}
	}
	return text, nil
}

// StopListening aborts recognition. Idempotent: calling it from Idle is a
// no-op and every call ends in Idle.
func (c *Coordinator) StopListening() {
	c.mu.Lock()
	wasListening := c.state == StateListening
	c.state = StateIdle
	c.mu.Unlock()

	if wasListening {
		c.engine.StopListening()
	}
}

// =============================================================================
// SPEAKING
// =============================================================================

// Speak synthesizes the text and blocks for the duration. Valid only from
// Idle; called during other activity it is a no-op. Synthesis failures are
// wrapped as *SpeechError and the state always ends at Idle.
func (c *Coordinator) Speak(ctx context.Context, text string, settings config.Settings) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.state = StateSpeaking
	c.mu.Unlock()

	err := c.engine.Speak(ctx, text, settings)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		return &SpeechError{Op: "speak", Err: err}
	}
	return nil
}

// StopSpeaking aborts synthesis. Idempotent; always ends in Idle.
func (c *Coordinator) StopSpeaking() {
	c.mu.Lock()
	wasSpeaking := c.state == StateSpeaking
	c.state = StateIdle
	c.mu.Unlock()

	if wasSpeaking {
		c.engine.StopSpeaking()
	}
}
