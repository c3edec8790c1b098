// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/model"
)

// stubClient records the last request and returns a canned reply or error.
type stubClient struct {
	reply   string
	err     error
	calls   int
	lastReq Request
}

func (s *stubClient) GetReply(_ context.Context, req Request) (string, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testSettings() config.Settings {
	return config.Settings{
		APIKey:        "sk-test",
		AIProvider:    "openai",
		AIModel:       "gpt-4o-mini",
		AIContext:     "be kind",
	}
}

func TestRequestReply_MissingCredential(t *testing.T) {
	stub := &stubClient{reply: "never"}
	coord := NewCoordinator(stub)

	settings := testSettings()
	settings.APIKey = "   "

	_, err := coord.RequestReply(context.Background(), nil, settings)
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, 0, stub.calls, "client must not be contacted without a key")
}

func TestRequestReply_ForwardsHistoryAndSettings(t *testing.T) {
	stub := &stubClient{reply: "Sounds good"}
	coord := NewCoordinator(stub)

	history := []model.Message{
		model.NewAssistantMessage("welcome"),
		model.NewUserMessage("hi"),
	}

	reply, err := coord.RequestReply(context.Background(), history, testSettings())
	require.NoError(t, err)
	assert.Equal(t, "Sounds good", reply)
	assert.Equal(t, 1, stub.calls)
	assert.Len(t, stub.lastReq.Messages, 2)
	assert.Equal(t, "openai", stub.lastReq.Provider)
	assert.Equal(t, "gpt-4o-mini", stub.lastReq.Model)
	assert.Equal(t, "be kind", stub.lastReq.SystemContext)
}

func TestRequestReply_WrapsClientFailure(t *testing.T) {
	cause := errors.New("connection refused")
	stub := &stubClient{err: cause}
	coord := NewCoordinator(stub)

	_, err := coord.RequestReply(context.Background(), nil, testSettings())
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "connection refused", provErr.Error(), "message must be preserved verbatim")
	assert.ErrorIs(t, err, cause)
}

func TestRequestReply_NoRetries(t *testing.T) {
	stub := &stubClient{err: errors.New("boom")}
	coord := NewCoordinator(stub)

	_, _ = coord.RequestReply(context.Background(), nil, testSettings())
	assert.Equal(t, 1, stub.calls, "coordinator must not retry")
}
