// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig describes an animation as frames plus playback speed.
// ASCII-only frames for maximum terminal compatibility.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// FrameDuration returns how long each frame is displayed.
func (c SpinnerConfig) FrameDuration() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 10
	}
	return time.Second / time.Duration(c.FPS)
}

// LineSpinner - Simple line rotation, shown while awaiting an AI reply
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Classic three-dot animation, shown while generating an entry
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// PulseSpinner - Pulsing indicator, shown while listening for speech
var PulseSpinner = SpinnerConfig{
	Frames: []string{"( )", "(.)", "(o)", "(O)", "(o)", "(.)", "( )", "   "},
	FPS:    8,
}
