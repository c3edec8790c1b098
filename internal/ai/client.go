// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ai provides the AI reply client and request coordinator.
package ai

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/innerlog/innerlog-tui/internal/model"
)

// Configuration constants for the provider HTTP API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the number of attempts for transient errors.
	// Retry policy lives here, in the client; the coordinator never retries.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize caps response bodies to prevent memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// providerBaseURLs maps a provider name to its OpenAI-compatible endpoint.
var providerBaseURLs = map[string]string{
	"openai":     "https://api.openai.com/v1",
	"openrouter": "https://openrouter.ai/api/v1",
	"ollama":     "http://127.0.0.1:11434/v1",
}

// sharedHTTPClient pools connections across all provider requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// CLIENT INTERFACE
// =============================================================================

// Request carries one reply request to the AI client.
type Request struct {
	Messages      []model.Message
	Provider      string
	Model         string
	APIKey        string
	SystemContext string
}

// Client is the external AI collaborator. Implementations own their own
// transport concerns (retries, rate limits); callers treat failures as
// opaque.
type Client interface {
	// GetReply sends the conversation and returns the assistant's text.
	GetReply(ctx context.Context, req Request) (string, error)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatMessage is one message in the chat-completions wire format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for /chat/completions.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatResponse is the response body for /chat/completions.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// apiErrorResponse is the error envelope the providers return.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// HTTPClient talks to an OpenAI-compatible chat-completions endpoint.
//
// The zero retry/backoff/rate-limit behavior is deliberate per provider
// contract: transient 429/5xx responses are retried with exponential
// backoff, everything else fails fast.
type HTTPClient struct {
	baseURL    string
	maxRetries int
	limiter    *rate.Limiter
}

// NewHTTPClient creates a client with default settings. The base URL is
// resolved per request from the provider name unless overridden.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		maxRetries: DefaultMaxRetries,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// WithBaseURL overrides provider base-URL resolution (used by tests and
// self-hosted gateways).
func (c *HTTPClient) WithBaseURL(url string) *HTTPClient {
	c.baseURL = url
	return c
}

// WithMaxRetries sets the retry attempt count.
func (c *HTTPClient) WithMaxRetries(n int) *HTTPClient {
	if n > 0 {
		c.maxRetries = n
	}
	return c
}

// WithLimiter replaces the outbound request rate limiter.
func (c *HTTPClient) WithLimiter(l *rate.Limiter) *HTTPClient {
	c.limiter = l
	return c
}

// GetReply implements Client against the chat-completions API.
func (c *HTTPClient) GetReply(ctx context.Context, req Request) (string, error) {
	url, err := c.resolveURL(req.Provider)
	if err != nil {
		return "", err
	}

	body := chatRequest{
		Model:    req.Model,
		Messages: toWire(req),
		Stream:   false,
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		reply, err := c.doRequest(ctx, url, req.APIKey, body)
		if err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return "", err
		}
		return reply, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return "", errors.New("max retries exceeded")
}

// resolveURL picks the endpoint for a provider name.
func (c *HTTPClient) resolveURL(provider string) (string, error) {
	if c.baseURL != "" {
		return c.baseURL + "/chat/completions", nil
	}
	base, ok := providerBaseURLs[provider]
	if !ok {
		return "", fmt.Errorf("unknown AI provider %q", provider)
	}
	return base + "/chat/completions", nil
}

// toWire converts a Request into the wire message sequence, prepending the
// system context when present.
func toWire(req Request) []chatMessage {
	out := make([]chatMessage, 0, len(req.Messages)+1)
	if req.SystemContext != "" {
		out = append(out, chatMessage{Role: "system", Content: req.SystemContext})
	}
	for _, m := range req.Messages {
		if m.Content == "" {
			continue
		}
		out = append(out, chatMessage{Role: m.Role.String(), Content: m.Content})
	}
	return out
}

// doRequest performs a single HTTP round trip.
func (c *HTTPClient) doRequest(ctx context.Context, url, apiKey string, body chatRequest) (string, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := sharedHTTPClient.Do(httpReq)

	// Clear the Authorization header immediately so the key never lands in
	// a log line via the request object.
	httpReq.Header.Del("Authorization")

	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", handleErrorResponse(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		wrapped := &APIError{
			Status:  statusCode,
			Code:    apiErr.Error.Code,
			Message: apiErr.Error.Message,
		}
		switch statusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrAuthFailed, wrapped.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrModelNotFound, wrapped.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, wrapped.Message)
		default:
			return wrapped
		}
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusNotFound:
		return ErrModelNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{Status: statusCode, Message: string(body)}
	}
}

// isRetryable reports whether an error should trigger another attempt.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return false
}

// backoff returns the delay before the next retry attempt.
func backoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
