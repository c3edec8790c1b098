// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ai provides the AI reply client and request coordinator.
package ai

import (
	"context"
	"strings"

	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/model"
)

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator issues one reply request at a time against the injected
// client and maps failures to the core error taxonomy.
//
// Admission control (at most one in-flight request) is owned by the
// conversation controller; the coordinator itself is stateless.
type Coordinator struct {
	client Client
}

// NewCoordinator creates a coordinator around the given client.
func NewCoordinator(client Client) *Coordinator {
	return &Coordinator{client: client}
}

// RequestReply forwards the full history plus provider settings to the
// client and returns its text verbatim.
//
// An empty API key fails immediately with ErrMissingCredential before any
// network traffic. Every client failure is surfaced as *ProviderError with
// the original message intact; no retries happen here. The message log is
// never touched; appending the user turn before the call and the assistant
// turn after success is the caller's responsibility.
func (c *Coordinator) RequestReply(ctx context.Context, history []model.Message, settings config.Settings) (string, error) {
	if strings.TrimSpace(settings.APIKey) == "" {
		return "", ErrMissingCredential
	}

	reply, err := c.client.GetReply(ctx, Request{
		Messages:      history,
		Provider:      settings.AIProvider,
		Model:         settings.AIModel,
		APIKey:        settings.APIKey,
		SystemContext: settings.AIContext,
	})
	if err != nil {
		return "", &ProviderError{Err: err}
	}
	return reply, nil
}
