// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains all rendering logic for the chat interface:
//   - Main view layout (header, scrollback, input, status bar)
//   - Message bubbles (user, assistant, system)
//   - Review overlay for pending journal entries
//   - Error and save notices
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/innerlog/innerlog-tui/internal/model"
	"github.com/innerlog/innerlog-tui/internal/speech"
	"github.com/innerlog/innerlog-tui/internal/ui/styles"
	"github.com/innerlog/innerlog-tui/internal/util"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
// Layout: header + messages (viewport) + input + status, stacked to fill
// the terminal exactly.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.focus == FocusHelp {
		return m.renderHelpOverlay()
	}
	if m.focus == FocusReview {
		return m.renderReviewOverlay()
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()
	messages := m.viewport.View()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		messages,
		input,
		status,
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("innerlog")
	subtitle := m.theme.HeaderSubtitle.Render("a quiet place to think out loud")
	line := title + "  " + subtitle
	return m.theme.Header.Width(m.width - 2).Render(line)
}

// =============================================================================
// MESSAGES
// =============================================================================

// renderMessages renders the full conversation for the viewport.
func (m Model) renderMessages() string {
	var b strings.Builder
	for i, msg := range m.snap.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.snap.Busy() {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.ThinkingText.Render(" " + m.thinkingLabel()))
	}

	if m.snap.LastError != "" {
		b.WriteString("\n")
		b.WriteString(m.renderError(m.snap.LastError))
	}
	if m.snap.LastSaveSuccess != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.SaveNotice.Render(styles.StatusIndicators.Success + " " + m.snap.LastSaveSuccess))
	}

	return b.String()
}

func (m Model) renderMessage(msg model.Message) string {
	meta := m.theme.MessageMeta.Render(formatTimestamp(msg.Timestamp) + " " + msg.Role.DisplayName())
	width := m.bubbleWidth()

	switch msg.Role {
	case model.RoleUser:
		bubble := m.theme.UserBubble.Width(width).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Right, meta, bubble)
	case model.RoleSystem:
		return m.theme.SystemBubble.Render(msg.Content)
	default:
		bubble := m.theme.AssistantBubble.Width(width).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Left, meta, bubble)
	}
}

// bubbleWidth caps message bubbles at a readable column count.
func (m Model) bubbleWidth() int {
	width := m.width - 12
	if width > 76 {
		width = 76
	}
	if width < 20 {
		width = 20
	}
	return width
}

func (m Model) thinkingLabel() string {
	if m.snap.IsGeneratingSummary {
		return "Writing your journal entry..."
	}
	return "Thinking..."
}

func (m Model) renderError(message string) string {
	title := m.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " Something went wrong")
	body := m.theme.ErrorMessage.Render(message)
	return m.theme.ErrorBox.Render(title + "\n" + body)
}

// =============================================================================
// INPUT AREA
// =============================================================================

func (m Model) renderInput() string {
	if m.snap.SpeechState == speech.StateListening {
		tag := m.theme.ListeningTag.Render("LISTENING")
		hint := m.theme.InputPlaceholder.Render("  speak now, Esc to stop")
		return m.theme.InputContainer.Width(m.width - 2).Render(tag + hint)
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	var parts []string

	parts = append(parts, m.renderSpeechModes())

	if m.snap.SpeechState == speech.StateSpeaking {
		parts = append(parts, m.theme.SpeakingTag.Render("SPEAKING"))
	}

	var shortcuts []string
	for _, b := range m.keyMap.ShortHelp() {
		shortcuts = append(shortcuts,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	parts = append(parts, strings.Join(shortcuts, "  "))

	line := strings.Join(parts, "  |  ")
	return m.theme.StatusBar.Width(m.width).Render(util.TruncateWidth(line, m.width))
}

func (m Model) renderSpeechModes() string {
	in := m.theme.SpeechModeOff.Render("voice-in:off")
	if m.snap.Modes.InputIsSpeech {
		in = m.theme.SpeechModeOn.Render("voice-in:on")
	}
	out := m.theme.SpeechModeOff.Render("voice-out:off")
	if m.snap.Modes.OutputIsSpeech {
		out = m.theme.SpeechModeOn.Render("voice-out:on")
	}
	return in + " " + out
}

// =============================================================================
// REVIEW OVERLAY
// =============================================================================

// renderReviewOverlay shows the generated journal entry for accept/reject.
func (m Model) renderReviewOverlay() string {
	title := m.theme.ReviewTitle.Render("Journal entry draft")
	hint := m.theme.ReviewHint.Render("y: save    n: discard")
	content := m.theme.ReviewContent.Render(m.renderMarkdown(m.snap.PendingSummary))

	boxWidth := m.width - 8
	if boxWidth > 84 {
		boxWidth = 84
	}
	if boxWidth < 24 {
		boxWidth = 24
	}

	box := m.theme.ReviewBox.Width(boxWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", content, "", hint),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m Model) renderHelpOverlay() string {
	title := m.theme.ReviewTitle.Render("Keyboard shortcuts")

	var rows []string
	for _, group := range m.keyMap.FullHelp() {
		for _, b := range group {
			rows = append(rows,
				m.theme.ShortcutKey.Render(util.PadRight(b.Help().Key, 10))+
					m.theme.ShortcutDesc.Render(b.Help().Desc))
		}
		rows = append(rows, "")
	}
	hint := m.theme.ReviewHint.Render("C-h or Esc to close")

	box := m.theme.ReviewBox.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			append(append([]string{title, ""}, rows...), hint)...),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
