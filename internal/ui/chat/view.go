// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termtalk/internal/model"
	"github.com/jeranaias/termtalk/internal/ui/components"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting termtalk..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("termtalk")
	hint := m.theme.HeaderHint.Render("a tiny chat")
	return m.theme.Header.Width(m.width - 2).Render(title + "  " + hint)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "send"},
		{"C-r", "reset"},
		{"C-t", "theme"},
		{"C-c", "quit"},
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts,
			m.theme.ShortcutKey.Render(s.key)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}

	bar := strings.Join(parts, "  ")
	mode := m.theme.ShortcutDesc.Render(m.theme.Name + " | " + m.state.String())

	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(mode) - 4
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(bar + strings.Repeat(" ", gap) + mode)
}

// syncViewport rebuilds the transcript view and pins it to the bottom so
// the newest message is always visible.
func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// renderMessages renders the full transcript plus the pending indicator.
func (m *Model) renderMessages() string {
	m.ensureMarkdown()

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var sections []string
	for _, msg := range m.transcript.All() {
		rendered := msg

		// Finalized bot replies get markdown treatment. The message
		// mid-reveal stays raw so partial markdown never flashes.
		if msg.IsBot() && msg.ID != m.revealMsgID && looksLikeMarkdown(msg.Content) {
			rendered = &model.Message{
				ID:        msg.ID,
				Role:      msg.Role,
				Content:   m.markdown.Render(msg.Content),
				Timestamp: msg.Timestamp,
				Error:     msg.Error,
			}
		}

		bubble := components.NewMessageBubble(rendered, m.theme)
		bubble.SetWidth(width - 2)
		sections = append(sections, bubble.View())
	}

	if m.indicator.Active() {
		sections = append(sections, m.indicator.View(m.theme))
	}

	return strings.Join(sections, "\n")
}

// looksLikeMarkdown reports whether the text benefits from markdown
// rendering. Plain one-line answers skip it so spacing stays tight.
func looksLikeMarkdown(text string) bool {
	return strings.ContainsAny(text, "*_`#") || strings.Contains(text, "\n")
}
