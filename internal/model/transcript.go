// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// DefaultGreeting is the bot message that seeds every fresh transcript.
const DefaultGreeting = "Hi! Ask me anything."

// Transcript is the ordered history of a chat session.
//
// Messages are append-only. The only permitted mutation of an existing
// message is SetContent on the newest entry, which the reveal animation
// uses to publish a growing prefix of the bot's reply. Reset is the sole
// clearing operation and always re-seeds the greeting.
//
// Transcript is not safe for concurrent use; in the TUI all access
// happens on the Bubble Tea update goroutine.
type Transcript struct {
	messages []*Message
	greeting string
}

// NewTranscript creates a transcript pre-seeded with a single bot
// greeting. An empty greeting falls back to DefaultGreeting.
func NewTranscript(greeting string) *Transcript {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	t := &Transcript{greeting: greeting}
	t.messages = append(t.messages, NewBotMessage(greeting))
	return t
}

// Append adds a message with the given role and content and returns it.
func (t *Transcript) Append(role Role, content string) *Message {
	msg := NewMessage(role, content)
	t.messages = append(t.messages, msg)
	return msg
}

// AppendUser adds a user message and returns it.
func (t *Transcript) AppendUser(content string) *Message {
	return t.Append(RoleUser, content)
}

// AppendBot adds a bot message and returns it.
func (t *Transcript) AppendBot(content string) *Message {
	return t.Append(RoleBot, content)
}

// AppendSystem adds an application notice and returns it.
func (t *Transcript) AppendSystem(content string) *Message {
	return t.Append(RoleSystem, content)
}

// AppendError adds a bot message flagged as an error notice and returns
// it.
func (t *Transcript) AppendError(content string) *Message {
	msg := t.Append(RoleBot, content)
	msg.Error = true
	return msg
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the newest message, or nil for an empty transcript.
func (t *Transcript) Last() *Message {
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// All returns the messages in order. The returned slice is a copy; the
// pointed-to messages are shared.
func (t *Transcript) All() []*Message {
	out := make([]*Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// SetLastContent replaces the content of the newest message, provided it
// matches the given ID. It reports whether the update was applied. The
// ID check makes stale reveal ticks from a cancelled animation harmless.
func (t *Transcript) SetLastContent(id, content string) bool {
	last := t.Last()
	if last == nil || last.ID != id {
		return false
	}
	last.Content = content
	return true
}

// Reset clears the transcript and re-seeds exactly one greeting message.
func (t *Transcript) Reset() {
	t.messages = t.messages[:0]
	t.messages = append(t.messages, NewBotMessage(t.greeting))
}

// Greeting returns the greeting text used to seed the transcript.
func (t *Transcript) Greeting() string {
	return t.greeting
}
