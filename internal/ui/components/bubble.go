// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/termtalk/internal/model"
	"github.com/jeranaias/termtalk/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single transcript message as a styled bubble.
// User messages sit on the right, bot messages on the left.
type MessageBubble struct {
	Message *model.Message
	Width   int
	theme   *styles.Theme
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleSystem}
	}
	return &MessageBubble{
		Message: msg,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth sets the total width available to the bubble.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUser()
	case model.RoleBot:
		return b.renderBot()
	default:
		return b.renderSystem()
	}
}

func (b *MessageBubble) renderUser() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}
	wrapped := wordWrap(content, b.contentWidth())

	bubble := b.theme.UserBubble.Render(wrapped)
	label := b.theme.UserLabel.Render("you")

	margin := b.Width - lipgloss.Width(bubble)
	if margin < 0 {
		margin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(margin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(label),
		marginStyle.Render(bubble),
	)
}

func (b *MessageBubble) renderBot() string {
	content := b.Message.Content
	// Content arriving pre-rendered (markdown) is wrapped already, unless
	// the viewport shrank underneath it.
	if !strings.Contains(content, "\n") || maxLineWidth(content) > b.contentWidth() {
		content = wordWrap(content, b.contentWidth())
	}

	if b.Message.Error {
		content = b.theme.ErrorText.Render(content)
	}

	bubble := b.theme.BotBubble.Render(content)
	label := b.theme.BotLabel.Render("bot")

	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

func (b *MessageBubble) renderSystem() string {
	return b.theme.SystemNotice.Render(wordWrap(b.Message.Content, b.Width))
}

// contentWidth returns the width budget for bubble text, leaving room for
// borders, padding and the alignment margin.
func (b *MessageBubble) contentWidth() int {
	w := b.Width - 12
	if w < 20 {
		w = 20
	}
	return w
}
