// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech coordinates speech input/output around an external engine.
package speech

import (
	"context"
	"errors"

	"github.com/innerlog/innerlog-tui/internal/config"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrSpeechUnavailable is returned when no recognition engine is present.
// The operation aborts before any state change.
var ErrSpeechUnavailable = errors.New("speech recognition is not available")

// SpeechError wraps a recognition or synthesis failure that happened
// mid-operation. The coordinator forces its state back to Idle before
// returning one.
type SpeechError struct {
	Op  string // "listen" or "speak"
	Err error
}

func (e *SpeechError) Error() string {
	return "speech " + e.Op + " failed: " + e.Err.Error()
}

func (e *SpeechError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ENGINE INTERFACE
// =============================================================================

// Engine is the external speech collaborator. Platform bindings (OS speech
// APIs, remote STT/TTS services) implement it; the coordinator treats it as
// opaque.
type Engine interface {
	// RecognitionAvailable reports whether speech input can be started.
	RecognitionAvailable() bool

	// StartListening blocks until one utterance is recognized or an error
	// occurs. A cancelled context or StopListening call ends recognition
	// with whatever partial result the engine chooses to report.
	StartListening(ctx context.Context) (string, error)

	// StopListening aborts recognition. Fire-and-forget: no guarantee is
	// made about in-flight partial results.
	StopListening()

	// Speak blocks until synthesis of the text completes.
	Speak(ctx context.Context, text string, settings config.Settings) error

	// StopSpeaking aborts synthesis. Fire-and-forget.
	StopSpeaking()

	// SetVoiceProvider reconfigures the synthesis voice backend.
	SetVoiceProvider(provider string)
}

// =============================================================================
// NOOP ENGINE
// =============================================================================

// NoopEngine is the engine used when no platform binding is wired (headless
// builds, tests). Recognition is unavailable and synthesis completes
// immediately.
type NoopEngine struct{}

// NewNoopEngine creates a NoopEngine.
func NewNoopEngine() *NoopEngine {
	return &NoopEngine{}
}

func (e *NoopEngine) RecognitionAvailable() bool { return false }

func (e *NoopEngine) StartListening(ctx context.Context) (string, error) {
	return "", ErrSpeechUnavailable
}

func (e *NoopEngine) StopListening() {}

func (e *NoopEngine) Speak(ctx context.Context, text string, settings config.Settings) error {
	return nil
}

func (e *NoopEngine) StopSpeaking() {}

func (e *NoopEngine) SetVoiceProvider(provider string) {}
