// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is a message typed by the person at the keyboard.
	RoleUser Role = "user"

	// RoleBot is a reply from the chat backend, including the greeting
	// and error notices rendered in the bot's voice.
	RoleBot Role = "bot"

	// RoleSystem is an informational notice from the application itself
	// (theme changes, connection notes).
	RoleSystem Role = "system"
)

// Message is a single entry in a chat transcript.
type Message struct {
	// ID uniquely identifies the message within a session.
	ID string

	// Role indicates who authored the message.
	Role Role

	// Content is the message text. For a bot message mid-reveal this
	// holds the currently revealed prefix, not the full reply.
	Content string

	// Timestamp is when the message was created.
	Timestamp time.Time

	// Error marks a bot message that reports a failed request. Error
	// messages render in the theme's error style.
	Error bool
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a message authored by the user.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewBotMessage creates a message authored by the chat backend.
func NewBotMessage(content string) *Message {
	return NewMessage(RoleBot, content)
}

// NewSystemMessage creates an application notice message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// IsUser reports whether the message was authored by the user.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsBot reports whether the message was authored by the chat backend.
func (m *Message) IsBot() bool {
	return m.Role == RoleBot
}
