// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ai provides the AI reply client and request coordinator.
//
// # Key Types
//
//   - Client: External collaborator interface for fetching a reply
//   - HTTPClient: OpenAI-compatible chat-completions implementation
//     (openai, openrouter, ollama) with pooled connections, bounded
//     retries, and outbound rate limiting
//   - Coordinator: Maps client failures to the core error taxonomy and
//     enforces the missing-credential precondition
//
// # Errors
//
//   - ErrMissingCredential: Empty API key, request never leaves the process
//   - ProviderError: Any client failure, message preserved verbatim
//
// # Usage
//
//	coord := ai.NewCoordinator(ai.NewHTTPClient())
//	reply, err := coord.RequestReply(ctx, log.All(), settings)
package ai
