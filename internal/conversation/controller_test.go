// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innerlog/innerlog-tui/internal/ai"
	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/model"
	"github.com/innerlog/innerlog-tui/internal/speech"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// stubClient returns a canned reply or error, optionally blocking until
// released so tests can observe the in-flight state.
type stubClient struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	release chan struct{} // when non-nil, GetReply blocks until closed
}

func (c *stubClient) GetReply(ctx context.Context, req ai.Request) (string, error) {
	c.mu.Lock()
	c.calls++
	release := c.release
	c.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.reply, c.err
}

func (c *stubClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// stubEngine records calls and returns scripted recognition results.
type stubEngine struct {
	mu          sync.Mutex
	available   bool
	heard       string
	listenErr   error
	listenCalls int
	provider    string
}

func (e *stubEngine) RecognitionAvailable() bool { return e.available }

func (e *stubEngine) StartListening(ctx context.Context) (string, error) {
	e.mu.Lock()
	e.listenCalls++
	e.mu.Unlock()
	return e.heard, e.listenErr
}

func (e *stubEngine) StopListening() {}

func (e *stubEngine) Speak(ctx context.Context, text string, settings config.Settings) error {
	return nil
}

func (e *stubEngine) StopSpeaking() {}

func (e *stubEngine) SetVoiceProvider(provider string) {
	e.mu.Lock()
	e.provider = provider
	e.mu.Unlock()
}

func settingsWithKey(key string) func() config.Settings {
	return func() config.Settings {
		return config.Settings{
			APIKey:     key,
			AIProvider: "openai",
			AIModel:    "gpt-4o-mini",
		}
	}
}

func newTestController(client ai.Client, engine speech.Engine) *Controller {
	return New(Options{
		Client:   client,
		Engine:   engine,
		Settings: settingsWithKey("sk-test"),
	})
}

// =============================================================================
// MESSAGING
// =============================================================================

func TestNew_SeedsWelcomeMessage(t *testing.T) {
	ctrl := newTestController(&stubClient{}, nil)

	s := ctrl.State()
	require.Len(t, s.Messages, 1)
	assert.Equal(t, model.RoleAssistant, s.Messages[0].Role)
	assert.Equal(t, DefaultWelcomeText, s.Messages[0].Content)
	assert.Equal(t, RequestIdle, s.RequestState)
}

func TestSendMessage_AppendsUserAndAssistantTurns(t *testing.T) {
	client := &stubClient{reply: "That sounds like a full day. What stood out?"}
	ctrl := newTestController(client, nil)

	ctrl.SendMessage(context.Background(), "Sounds good")

	s := ctrl.State()
	require.Len(t, s.Messages, 3)
	assert.Equal(t, model.RoleAssistant, s.Messages[0].Role)
	assert.Equal(t, model.RoleUser, s.Messages[1].Role)
	assert.Equal(t, "Sounds good", s.Messages[1].Content)
	assert.Equal(t, model.RoleAssistant, s.Messages[2].Role)
	assert.Equal(t, client.reply, s.Messages[2].Content)
	assert.Empty(t, s.LastError)
	assert.Equal(t, RequestIdle, s.RequestState)
}

func TestSendMessage_BlankTextIsNoOp(t *testing.T) {
	client := &stubClient{reply: "hi"}
	ctrl := newTestController(client, nil)

	ctrl.SendMessage(context.Background(), "   \n\t")

	assert.Len(t, ctrl.State().Messages, 1)
	assert.Equal(t, 0, client.callCount())
}

func TestSendMessage_MissingKeyKeepsUserTurn(t *testing.T) {
	client := &stubClient{reply: "unused"}
	ctrl := New(Options{
		Client:   client,
		Settings: settingsWithKey(""),
	})

	ctrl.SendMessage(context.Background(), "Today was hard")

	s := ctrl.State()
	require.Len(t, s.Messages, 2)
	assert.Equal(t, model.RoleUser, s.Messages[1].Role)
	assert.Equal(t, MissingKeyNotice, s.LastError)
	assert.Equal(t, RequestIdle, s.RequestState)
	assert.Equal(t, 0, client.callCount(), "no network call without a key")
}

func TestSendMessage_ProviderErrorVerbatim(t *testing.T) {
	client := &stubClient{err: errors.New("model overloaded, try again")}
	ctrl := newTestController(client, nil)

	ctrl.SendMessage(context.Background(), "hello")

	s := ctrl.State()
	assert.Equal(t, "model overloaded, try again", s.LastError)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, RequestIdle, s.RequestState)
}

func TestSendMessage_RejectedWhileBusy(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{reply: "done", release: release}
	ctrl := newTestController(client, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.SendMessage(context.Background(), "first")
	}()

	// Wait for the first request to enter flight.
	require.Eventually(t, func() bool {
		return ctrl.State().RequestState == AwaitingAIResponse
	}, time.Second, time.Millisecond)

	ctrl.SendMessage(context.Background(), "second")
	assert.Equal(t, 1, client.callCount())

	close(release)
	wg.Wait()

	s := ctrl.State()
	require.Len(t, s.Messages, 3)
	assert.Equal(t, "first", s.Messages[1].Content)
}

func TestClearChat_ResetsToSingleWelcome(t *testing.T) {
	client := &stubClient{reply: "a reply"}
	ctrl := newTestController(client, nil)

	ctrl.SendMessage(context.Background(), "one")
	ctrl.SendMessage(context.Background(), "two")
	ctrl.SaveChatTranscript()
	require.Len(t, ctrl.State().Messages, 5)

	ctrl.ClearChat()

	s := ctrl.State()
	require.Len(t, s.Messages, 1)
	assert.Equal(t, DefaultWelcomeText, s.Messages[0].Content)
	assert.Empty(t, s.PendingSummary)
	assert.Empty(t, s.PendingTranscript)
	assert.False(t, s.IsSavingTranscript)
	assert.Empty(t, s.LastError)
	assert.Empty(t, s.LastSaveSuccess)
}

func TestListenerPublishedOnMutation(t *testing.T) {
	var mu sync.Mutex
	var published []State

	ctrl := New(Options{
		Client:   &stubClient{reply: "ok"},
		Settings: settingsWithKey("sk-test"),
		Listener: func(s State) {
			mu.Lock()
			published = append(published, s)
			mu.Unlock()
		},
	})

	ctrl.SendMessage(context.Background(), "hi")

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(published), 2)
	// First publish carries the user turn with the request in flight.
	first := published[0]
	assert.Equal(t, AwaitingAIResponse, first.RequestState)
	require.Len(t, first.Messages, 2)
	// Final publish carries the assistant turn at rest.
	last := published[len(published)-1]
	assert.Equal(t, RequestIdle, last.RequestState)
	require.Len(t, last.Messages, 3)
}

// =============================================================================
// JOURNAL ENTRY WORKFLOW
// =============================================================================

func TestSaveJournalEntry_FullLifecycle(t *testing.T) {
	client := &stubClient{reply: "# Tuesday\n\nA good day."}
	ctrl := newTestController(client, nil)

	ctrl.SaveJournalEntry(context.Background())

	s := ctrl.State()
	assert.Equal(t, "# Tuesday\n\nA good day.", s.PendingSummary)
	assert.False(t, s.IsGeneratingSummary)
	assert.Equal(t, RequestIdle, s.RequestState)

	ctrl.AcceptSummaryAndSave(s.PendingSummary)
	assert.True(t, ctrl.State().IsSavingEntry)

	ctrl.OnFileSaved(true, "/journal/journal_20250101_090000.md")
	s = ctrl.State()
	assert.Empty(t, s.PendingSummary)
	assert.False(t, s.IsSavingEntry)
	assert.Equal(t, "Journal entry saved to /journal/journal_20250101_090000.md", s.LastSaveSuccess)
}

func TestSaveJournalEntry_RejectDiscards(t *testing.T) {
	client := &stubClient{reply: "entry text"}
	ctrl := newTestController(client, nil)

	ctrl.SaveJournalEntry(context.Background())
	require.NotEmpty(t, ctrl.State().PendingSummary)

	ctrl.RejectSummary()

	s := ctrl.State()
	assert.Empty(t, s.PendingSummary)
	assert.Empty(t, s.LastSaveSuccess)
}

func TestSaveJournalEntry_FailedSaveIsSilent(t *testing.T) {
	client := &stubClient{reply: "entry text"}
	ctrl := newTestController(client, nil)

	ctrl.SaveJournalEntry(context.Background())
	ctrl.AcceptSummaryAndSave("edited text")
	ctrl.OnFileSaved(false, "")

	s := ctrl.State()
	assert.Empty(t, s.PendingSummary)
	assert.False(t, s.IsSavingEntry)
	assert.Empty(t, s.LastError)
	assert.Empty(t, s.LastSaveSuccess)
}

func TestSaveJournalEntry_GenerationFailure(t *testing.T) {
	client := &stubClient{err: errors.New("upstream timeout")}
	ctrl := newTestController(client, nil)

	ctrl.SaveJournalEntry(context.Background())

	s := ctrl.State()
	assert.Empty(t, s.PendingSummary)
	assert.Equal(t, "Failed to generate journal entry: upstream timeout", s.LastError)
	assert.Equal(t, RequestIdle, s.RequestState)
}

func TestSaveJournalEntry_MissingKey(t *testing.T) {
	ctrl := New(Options{
		Client:   &stubClient{reply: "unused"},
		Settings: settingsWithKey(""),
	})

	ctrl.SaveJournalEntry(context.Background())

	assert.Equal(t, MissingKeyNotice, ctrl.State().LastError)
}

func TestSaveJournalEntry_RejectedWhileBusy(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{reply: "slow reply", release: release}
	ctrl := newTestController(client, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.SendMessage(context.Background(), "hi")
	}()
	require.Eventually(t, func() bool {
		return ctrl.State().RequestState == AwaitingAIResponse
	}, time.Second, time.Millisecond)

	ctrl.SaveJournalEntry(context.Background())
	assert.Equal(t, 1, client.callCount())
	assert.Empty(t, ctrl.State().PendingSummary)

	close(release)
	wg.Wait()
}

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

func TestSaveChatTranscript_PendingAndSaved(t *testing.T) {
	client := &stubClient{reply: "a reply"}
	ctrl := newTestController(client, nil)
	ctrl.SendMessage(context.Background(), "hello there")

	ctrl.SaveChatTranscript()

	s := ctrl.State()
	assert.True(t, s.IsSavingTranscript)
	assert.True(t, strings.HasPrefix(s.PendingTranscript, "Conversation Transcript"))
	assert.Contains(t, s.PendingTranscript, "hello there")

	ctrl.OnTranscriptSaved(true, "/journal/transcript_20250101_090000.txt")

	s = ctrl.State()
	assert.False(t, s.IsSavingTranscript)
	assert.Empty(t, s.PendingTranscript)
	assert.Equal(t, "Transcript saved to /journal/transcript_20250101_090000.txt", s.LastSaveSuccess)
}

func TestSaveChatTranscript_FailureIsSilent(t *testing.T) {
	ctrl := newTestController(&stubClient{}, nil)

	ctrl.SaveChatTranscript()
	require.True(t, ctrl.State().IsSavingTranscript)

	ctrl.OnTranscriptSaved(false, "")

	s := ctrl.State()
	assert.False(t, s.IsSavingTranscript)
	assert.Empty(t, s.PendingTranscript)
	assert.Empty(t, s.LastError)
	assert.Empty(t, s.LastSaveSuccess)
}

// =============================================================================
// SPEECH
// =============================================================================

func TestToggleModes_Involution(t *testing.T) {
	ctrl := newTestController(&stubClient{}, &stubEngine{})

	before := ctrl.State().Modes

	ctrl.ToggleInputMode()
	ctrl.ToggleOutputMode()
	mid := ctrl.State().Modes
	assert.NotEqual(t, before.InputIsSpeech, mid.InputIsSpeech)
	assert.NotEqual(t, before.OutputIsSpeech, mid.OutputIsSpeech)

	ctrl.ToggleInputMode()
	ctrl.ToggleOutputMode()
	assert.Equal(t, before, ctrl.State().Modes)
}

func TestStartListening_FeedsRecognizedText(t *testing.T) {
	client := &stubClient{reply: "go on"}
	engine := &stubEngine{available: true, heard: "today I went hiking"}
	ctrl := newTestController(client, engine)

	ctrl.StartListening(context.Background())

	s := ctrl.State()
	require.Len(t, s.Messages, 3)
	assert.Equal(t, "today I went hiking", s.Messages[1].Content)
	assert.Equal(t, speech.StateIdle, s.SpeechState)
}

func TestStartListening_Unavailable(t *testing.T) {
	ctrl := newTestController(&stubClient{}, &stubEngine{available: false})

	ctrl.StartListening(context.Background())

	s := ctrl.State()
	assert.Equal(t, "Speech recognition is not available on this device", s.LastError)
	assert.Equal(t, speech.StateIdle, s.SpeechState)
	assert.Len(t, s.Messages, 1)
}

func TestStartListening_RejectedWhileBusy(t *testing.T) {
	release := make(chan struct{})
	client := &stubClient{reply: "reply", release: release}
	engine := &stubEngine{available: true, heard: "should not be heard"}
	ctrl := newTestController(client, engine)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.SendMessage(context.Background(), "hi")
	}()
	require.Eventually(t, func() bool {
		return ctrl.State().RequestState == AwaitingAIResponse
	}, time.Second, time.Millisecond)

	ctrl.StartListening(context.Background())

	engine.mu.Lock()
	calls := engine.listenCalls
	engine.mu.Unlock()
	assert.Equal(t, 0, calls)
	assert.Equal(t, speech.StateIdle, ctrl.State().SpeechState)

	close(release)
	wg.Wait()
}

func TestStartListening_EmptyUtteranceDropsTurn(t *testing.T) {
	client := &stubClient{reply: "unused"}
	ctrl := newTestController(client, &stubEngine{available: true, heard: "   "})

	ctrl.StartListening(context.Background())

	assert.Len(t, ctrl.State().Messages, 1)
	assert.Equal(t, 0, client.callCount())
}

func TestApplySettings_UpdatesVoiceProvider(t *testing.T) {
	engine := &stubEngine{}
	ctrl := newTestController(&stubClient{}, engine)

	ctrl.ApplySettings(config.Settings{TTSProvider: "elevenlabs"})

	engine.mu.Lock()
	defer engine.mu.Unlock()
	assert.Equal(t, "elevenlabs", engine.provider)
}

// =============================================================================
// NOTICES
// =============================================================================

func TestClearNotices(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	ctrl := newTestController(client, nil)

	ctrl.SendMessage(context.Background(), "hi")
	require.NotEmpty(t, ctrl.State().LastError)

	ctrl.ClearError()
	assert.Empty(t, ctrl.State().LastError)

	ctrl.SaveChatTranscript()
	ctrl.OnTranscriptSaved(true, "/tmp/t.txt")
	require.NotEmpty(t, ctrl.State().LastSaveSuccess)

	ctrl.ClearSaveSuccess()
	assert.Empty(t, ctrl.State().LastSaveSuccess)
}
