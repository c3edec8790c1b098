// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal journaling REPL.
//
// Used when stdout is not a TTY capable of the full-screen view, or when
// the user passes --plain. Provides the same session operations as the TUI
// through slash commands.
//
// Interactive Commands:
//   /save, /s           Generate a journal entry from the conversation
//   /transcript, /t     Export the raw transcript
//   /clear, /c          Clear conversation history
//   /voice-in           Toggle speech input mode
//   /voice-out          Toggle speech output mode
//   /listen, /l         Listen for one spoken message
//   /help, /h           Show available commands
//   /quit, /q           Exit
//   Ctrl+D              Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/conversation"
	"github.com/innerlog/innerlog-tui/internal/save"
	"github.com/innerlog/innerlog-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Lavender).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Sage)

	replyStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader provides input history and line editing for the REPL.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	r.loadHistory()
	return r
}

func (r *lineReader) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *lineReader) readInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *lineReader) close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// Session runs the plain-terminal journaling loop until the user exits.
type Session struct {
	ctrl  *conversation.Controller
	saver save.Saver
}

// NewSession creates a REPL session around the controller and saver.
func NewSession(ctrl *conversation.Controller, saver save.Saver) *Session {
	return &Session{ctrl: ctrl, saver: saver}
}

// Run blocks until the user exits or the context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	reader := newLineReader()
	defer reader.close()

	fmt.Println(welcomeStyle.Render("innerlog"))
	fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()
	s.printLastReply()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		input, err := reader.readInput(promptStyle.Render("> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// io.EOF from Ctrl+D ends the session cleanly.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := s.handleCommand(ctx, reader, input); quit {
				return nil
			}
			continue
		}

		s.ctrl.SendMessage(ctx, input)
		s.printOutcome()
	}
}

// handleCommand dispatches a slash command. Returns true when the session
// should end.
func (s *Session) handleCommand(ctx context.Context, reader *lineReader, input string) bool {
	cmd := strings.ToLower(strings.Fields(input)[0])

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		s.printHelp()

	case "/clear", "/c":
		s.ctrl.ClearChat()
		fmt.Println(infoStyle.Render("Conversation cleared."))
		s.printLastReply()

	case "/save", "/s":
		s.saveEntry(ctx, reader)

	case "/transcript", "/t":
		s.saveTranscript()

	case "/voice-in":
		s.ctrl.ToggleInputMode()
		s.printSpeechModes()

	case "/voice-out":
		s.ctrl.ToggleOutputMode()
		s.printSpeechModes()

	case "/listen", "/l":
		fmt.Println(infoStyle.Render("Listening..."))
		s.ctrl.StartListening(ctx)
		s.printOutcome()

	default:
		fmt.Println(infoStyle.Render("Unknown command. Type /help for commands."))
	}
	return false
}

// saveEntry runs the generate/review/save workflow at the prompt.
func (s *Session) saveEntry(ctx context.Context, reader *lineReader) {
	fmt.Println(infoStyle.Render("Writing your journal entry..."))
	s.ctrl.SaveJournalEntry(ctx)

	state := s.ctrl.State()
	if state.LastError != "" {
		fmt.Println(styles.RenderError(state.LastError))
		s.ctrl.ClearError()
		return
	}
	if state.PendingSummary == "" {
		return
	}

	fmt.Println()
	fmt.Println(state.PendingSummary)
	fmt.Println()

	answer, err := reader.readInput(promptStyle.Render("Save this entry? [y/n] "))
	if err != nil || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
		s.ctrl.RejectSummary()
		fmt.Println(infoStyle.Render("Discarded."))
		return
	}

	s.ctrl.AcceptSummaryAndSave(state.PendingSummary)
	location, saveErr := s.saver.Save(save.KindEntry, state.PendingSummary)
	s.ctrl.OnFileSaved(saveErr == nil, location)
	s.printOutcome()
}

// saveTranscript exports the conversation transcript without review.
func (s *Session) saveTranscript() {
	s.ctrl.SaveChatTranscript()
	state := s.ctrl.State()
	if state.PendingTranscript == "" {
		return
	}
	location, err := s.saver.Save(save.KindTranscript, state.PendingTranscript)
	s.ctrl.OnTranscriptSaved(err == nil, location)
	s.printOutcome()
}

// =============================================================================
// OUTPUT
// =============================================================================

// printOutcome prints whatever the last operation produced: the newest
// assistant reply, an error, or a save notice.
func (s *Session) printOutcome() {
	state := s.ctrl.State()

	if state.LastError != "" {
		fmt.Println(styles.RenderError(state.LastError))
		s.ctrl.ClearError()
		return
	}
	if state.LastSaveSuccess != "" {
		fmt.Println(styles.RenderSuccess(state.LastSaveSuccess))
		s.ctrl.ClearSaveSuccess()
		return
	}
	s.printLastReply()
}

// printLastReply prints the most recent assistant message.
func (s *Session) printLastReply() {
	msg, ok := s.ctrl.State().LastMessage()
	if !ok {
		return
	}
	fmt.Println(replyStyle.Render(msg.Role.DisplayName() + ": " + msg.Content))
	fmt.Println()
}

func (s *Session) printSpeechModes() {
	modes := s.ctrl.State().Modes
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	fmt.Println(infoStyle.Render(
		fmt.Sprintf("voice-in: %s  voice-out: %s", onOff(modes.InputIsSpeech), onOff(modes.OutputIsSpeech))))
}

func (s *Session) printHelp() {
	rows := [][2]string{
		{"/save, /s", "Generate a journal entry from the conversation"},
		{"/transcript, /t", "Export the raw transcript"},
		{"/clear, /c", "Clear conversation history"},
		{"/voice-in", "Toggle speech input mode"},
		{"/voice-out", "Toggle speech output mode"},
		{"/listen, /l", "Listen for one spoken message"},
		{"/help, /h", "Show this help"},
		{"/quit, /q", "Exit"},
	}
	for _, row := range rows {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-16s", row[0])),
			infoStyle.Render(row[1]))
	}
}
