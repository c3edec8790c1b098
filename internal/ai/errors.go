// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ai provides the AI reply client and request coordinator.
package ai

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrMissingCredential is returned when a reply is requested without an API
// key configured. The coordinator fails before any network traffic.
var ErrMissingCredential = errors.New("no API key configured")

// ProviderError wraps any failure reported by the AI client. The underlying
// message is preserved verbatim for display; no retry is attempted at this
// level.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// APIError represents a non-200 response from the provider HTTP API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "provider returned status " + itoa(e.Status)
}

// Sentinel errors for common provider failures.
var (
	ErrAuthFailed    = errors.New("authentication failed")
	ErrModelNotFound = errors.New("model not found")
	ErrRateLimited   = errors.New("rate limited")
)

// itoa avoids pulling fmt into the error path for a single integer.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
