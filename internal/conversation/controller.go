// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/innerlog/innerlog-tui/internal/ai"
	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/model"
	"github.com/innerlog/innerlog-tui/internal/speech"
	"github.com/innerlog/innerlog-tui/internal/summary"
	"github.com/innerlog/innerlog-tui/internal/transcript"
)

// DefaultWelcomeText seeds every fresh conversation.
const DefaultWelcomeText = "Hi, I'm here whenever you want to talk through your day. What's on your mind?"

// MissingKeyNotice is the user-facing instruction shown when no API key is
// configured.
const MissingKeyNotice = "Please configure your API key in Settings"

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller composes the message log, AI coordinator, speech coordinator,
// and summary workflow into the single surface the presentation layer uses.
//
// Operations are synchronous: the presentation layer runs the blocking ones
// (SendMessage, SaveJournalEntry, StartListening) inside its own commands.
// One mutex guards all session state; admission flags are set under it
// before a collaborator call and cleared after, so re-entrant calls are
// rejected at this boundary rather than queued. The only cancellation is
// StopListening/StopSpeaking; an AI request, once started, runs to
// completion or failure.
type Controller struct {
	mu sync.Mutex

	log          *model.Log
	requestState RequestState

	coord    *ai.Coordinator
	speech   *speech.Coordinator
	workflow *summary.Workflow

	settings func() config.Settings
	listener func(State)

	welcomeText string

	pendingTranscript  string
	isSavingTranscript bool

	lastError       string
	lastSaveSuccess string
}

// Options configures a Controller. Collaborators are injected explicitly so
// tests can substitute doubles.
type Options struct {
	// Client fetches AI replies. Required.
	Client ai.Client

	// Engine is the speech collaborator. Defaults to a NoopEngine.
	Engine speech.Engine

	// Settings returns the current settings snapshot. The controller reads
	// a fresh snapshot at the start of each operation. Required.
	Settings func() config.Settings

	// Listener is invoked with a state snapshot after every mutation.
	// Optional.
	Listener func(State)

	// WelcomeText overrides the seed message. Optional.
	WelcomeText string
}

// New creates a controller seeded with the welcome message.
func New(opts Options) *Controller {
	engine := opts.Engine
	if engine == nil {
		engine = speech.NewNoopEngine()
	}
	welcome := opts.WelcomeText
	if welcome == "" {
		welcome = DefaultWelcomeText
	}
	listener := opts.Listener
	if listener == nil {
		listener = func(State) {}
	}

	coord := ai.NewCoordinator(opts.Client)
	return &Controller{
		log:         model.NewLog(model.NewAssistantMessage(welcome)),
		coord:       coord,
		speech:      speech.NewCoordinator(engine),
		workflow:    summary.NewWorkflow(coord),
		settings:    opts.Settings,
		listener:    listener,
		welcomeText: welcome,
	}
}

// State returns the current observable snapshot.
func (c *Controller) State() State {
	return c.snapshot()
}

// snapshot builds a state copy under the controller lock.
func (c *Controller) snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	phase := c.workflow.Phase()
	s := State{
		Messages:            c.log.All(),
		RequestState:        c.requestState,
		SpeechState:         c.speech.State(),
		Modes:               c.speech.Modes(),
		IsGeneratingSummary: phase == summary.PhaseGenerating,
		IsSavingEntry:       phase == summary.PhaseSaving,
		PendingTranscript:   c.pendingTranscript,
		IsSavingTranscript:  c.isSavingTranscript,
		LastError:           c.lastError,
		LastSaveSuccess:     c.lastSaveSuccess,
	}
	if phase == summary.PhasePending {
		s.PendingSummary = c.workflow.PendingText()
	}
	return s
}

// publish pushes a fresh snapshot to the listener.
func (c *Controller) publish() {
	c.listener(c.snapshot())
}

// =============================================================================
// MESSAGING
// =============================================================================

// SendMessage appends the user's turn and requests an AI reply.
//
// Blank text or an in-flight request makes this a no-op. The user message
// is appended (and published) before the AI call resolves; on failure the
// log keeps the user's turn and only LastError changes. On success the
// assistant turn is appended and, when speech output is on, spoken.
func (c *Controller) SendMessage(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.mu.Lock()
	if c.requestState != RequestIdle {
		c.mu.Unlock()
		return
	}
	c.requestState = AwaitingAIResponse
	c.log.Append(model.NewUserMessage(text))
	settings := c.settings()
	history := c.log.All()
	c.mu.Unlock()
	c.publish()

	reply, err := c.coord.RequestReply(ctx, history, settings)

	c.mu.Lock()
	c.requestState = RequestIdle
	if err != nil {
		c.lastError = replyErrorNotice(err)
		c.mu.Unlock()
		c.publish()
		return
	}
	c.log.Append(model.NewAssistantMessage(reply))
	c.lastError = ""
	speakReply := c.speech.Modes().OutputIsSpeech
	c.mu.Unlock()
	c.publish()

	if speakReply {
		if err := c.speech.Speak(ctx, reply, settings); err != nil {
			c.setError(err.Error())
		}
		c.publish()
	}
}

// replyErrorNotice maps a coordinator error to its user-facing text.
func replyErrorNotice(err error) string {
	if errors.Is(err, ai.ErrMissingCredential) {
		return MissingKeyNotice
	}
	return err.Error()
}

// ClearChat resets the conversation to the single welcome message and
// drops every pending artifact and notice.
func (c *Controller) ClearChat() {
	c.mu.Lock()
	c.log.Reset(model.NewAssistantMessage(c.welcomeText))
	c.pendingTranscript = ""
	c.isSavingTranscript = false
	c.lastError = ""
	c.lastSaveSuccess = ""
	c.mu.Unlock()

	c.workflow.Reject()
	c.publish()
}

// ClearError clears the error notice.
func (c *Controller) ClearError() {
	c.setError("")
	c.publish()
}

// ClearSaveSuccess clears the save-success notice.
func (c *Controller) ClearSaveSuccess() {
	c.mu.Lock()
	c.lastSaveSuccess = ""
	c.mu.Unlock()
	c.publish()
}

// setError records an error notice (single slot, newest wins).
func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.lastError = msg
	c.mu.Unlock()
}

// =============================================================================
// JOURNAL ENTRY WORKFLOW
// =============================================================================

// SaveJournalEntry asks the AI to format the conversation as a journal
// entry and leaves the result pending for accept/reject.
//
// Rejected while another AI request is in flight. Precondition failures
// (empty log, summary already pending) are silent no-ops; credential and
// provider failures surface through LastError.
func (c *Controller) SaveJournalEntry(ctx context.Context) {
	c.mu.Lock()
	if c.requestState != RequestIdle {
		c.mu.Unlock()
		return
	}
	c.requestState = AwaitingSummary
	settings := c.settings()
	history := c.log.All()
	c.mu.Unlock()
	c.publish()

	_, err := c.workflow.Generate(ctx, history, settings)

	c.mu.Lock()
	c.requestState = RequestIdle
	if err != nil {
		switch {
		case errors.Is(err, summary.ErrNothingToSummarize),
			errors.Is(err, summary.ErrGenerationInProgress),
			errors.Is(err, summary.ErrSummaryPending):
			// Precondition no-ops: nothing to surface.
		case errors.Is(err, ai.ErrMissingCredential):
			c.lastError = MissingKeyNotice
		default:
			c.lastError = "Failed to generate journal entry: " + err.Error()
		}
	}
	c.mu.Unlock()
	c.publish()
}

// AcceptSummaryAndSave accepts the pending entry (possibly edited by the
// user) and moves it to Saving. The presentation layer then hands the text
// to the save collaborator and reports back via OnFileSaved.
func (c *Controller) AcceptSummaryAndSave(text string) {
	c.workflow.Accept(text)
	c.publish()
}

// RejectSummary discards the pending entry.
func (c *Controller) RejectSummary() {
	c.workflow.Reject()
	c.publish()
}

// OnFileSaved completes the entry save. Success sets the save notice;
// failure and cancellation are identical: pending state is discarded and
// any stale error cleared without surfacing a new one.
func (c *Controller) OnFileSaved(success bool, path string) {
	notice := c.workflow.SaveCompleted(success, path)

	c.mu.Lock()
	c.lastError = ""
	if success {
		c.lastSaveSuccess = notice
	}
	c.mu.Unlock()
	c.publish()
}

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// SaveChatTranscript renders the conversation as a plain-text transcript
// and leaves it pending export confirmation.
func (c *Controller) SaveChatTranscript() {
	c.mu.Lock()
	if c.log.IsEmpty() || c.isSavingTranscript {
		c.mu.Unlock()
		return
	}
	c.pendingTranscript = transcript.Build(c.log.All())
	c.isSavingTranscript = true
	c.mu.Unlock()
	c.publish()
}

// OnTranscriptSaved completes the transcript export with the same
// silent-failure contract as OnFileSaved.
func (c *Controller) OnTranscriptSaved(success bool, path string) {
	c.mu.Lock()
	c.pendingTranscript = ""
	c.isSavingTranscript = false
	c.lastError = ""
	if success {
		if path != "" {
			c.lastSaveSuccess = "Transcript saved to " + path
		} else {
			c.lastSaveSuccess = "Transcript saved"
		}
	}
	c.mu.Unlock()
	c.publish()
}

// =============================================================================
// SPEECH
// =============================================================================

// ToggleInputMode flips the speech-input preference.
func (c *Controller) ToggleInputMode() {
	c.speech.ToggleInputMode()
	c.publish()
}

// ToggleOutputMode flips the speech-output preference.
func (c *Controller) ToggleOutputMode() {
	c.speech.ToggleOutputMode()
	c.publish()
}

// StartListening blocks on one utterance and feeds the recognized text
// into SendMessage. Rejected while an AI request is in flight; the speech
// state is untouched in that case.
func (c *Controller) StartListening(ctx context.Context) {
	c.mu.Lock()
	if c.requestState != RequestIdle {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	text, err := c.speech.Listen(ctx)
	c.publish()

	if err != nil {
		if errors.Is(err, speech.ErrSpeechUnavailable) {
			c.setError("Speech recognition is not available on this device")
		} else {
			c.setError(err.Error())
		}
		c.publish()
		return
	}
	if strings.TrimSpace(text) != "" {
		c.SendMessage(ctx, text)
	}
}

// StopListening aborts recognition. Idempotent.
func (c *Controller) StopListening() {
	c.speech.StopListening()
	c.publish()
}

// StopSpeaking aborts synthesis. Idempotent.
func (c *Controller) StopSpeaking() {
	c.speech.StopSpeaking()
	c.publish()
}

// =============================================================================
// SETTINGS
// =============================================================================

// ApplySettings reacts to a settings change by reconfiguring the speech
// engine's voice provider. Operations always read a fresh snapshot, so
// nothing else needs to be pushed here.
func (c *Controller) ApplySettings(s config.Settings) {
	c.speech.SetVoiceProvider(s.TTSProvider)
	c.publish()
}

// WatchSettings consumes a settings change stream until it closes or the
// context ends. Run it in its own goroutine.
func (c *Controller) WatchSettings(ctx context.Context, changes <-chan config.Settings) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-changes:
			if !ok {
				return
			}
			c.ApplySettings(snap)
		}
	}
}
