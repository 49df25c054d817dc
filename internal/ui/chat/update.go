// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/termtalk/internal/transport"
	"github.com/jeranaias/termtalk/internal/ui/components"
	"github.com/jeranaias/termtalk/internal/ui/styles"
	"github.com/jeranaias/termtalk/internal/util"
)

// networkErrorText is shown when the chat server cannot be reached at all.
const networkErrorText = "Error, no connection to server."

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case spinner.TickMsg:
		cmd := m.indicator.Update(msg)
		return m, cmd

	case ReplyMsg:
		return m.handleReply(msg)

	case ReplyErrorMsg:
		return m.handleReplyError(msg)

	case RevealTickMsg:
		return m.handleRevealTick(msg)

	case ResetDoneMsg:
		if msg.Err != nil {
			log.Printf("RESET_FAILED | error=%v", msg.Err)
		}
		return m, nil

	case ThemeSavedMsg:
		if msg.Err != nil {
			log.Printf("THEME_SAVE_FAILED | error=%v", msg.Err)
		}
		return m, nil

	case ConfigReloadedMsg:
		return m.handleConfigReload(msg), nil
	}

	return m.updateComponents(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.ClearInput):
		m.input.SetValue("")
		return m, nil

	case key.Matches(msg, m.keyMap.Reset):
		return m.reset()

	case key.Matches(msg, m.keyMap.Theme):
		return m.toggleTheme()

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil
	}

	return m.updateComponents(msg)
}

// submit sends the composer content. Allowed only in StateIdle; blank input
// is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state != StateIdle {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	// The user message lands in the transcript before the indicator shows.
	m.transcript.AppendUser(text)
	m.input.SetValue("")
	m.syncViewport()

	m.state = StateAwaitingReply
	m.generation++

	timeout := time.Duration(m.cfg.Chat.TimeoutSecs) * time.Second
	return m, tea.Batch(
		m.indicator.Start(),
		sendCmd(m.client, m.generation, text, timeout),
	)
}

// reset abandons any in-flight work and returns to a fresh transcript.
// Allowed from any state.
func (m Model) reset() (tea.Model, tea.Cmd) {
	m.generation++
	m.state = StateIdle
	m.indicator.Stop()
	m.revealMsgID = ""
	m.revealFull = ""
	m.revealPos = 0

	m.transcript.Reset()
	m.input.SetValue("")
	m.syncViewport()

	return m, resetCmd(m.client)
}

// toggleTheme flips dark/light, rebuilds the styles, and persists the
// choice.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.theme = m.theme.Toggle()
	m.cfg.UI.Theme = m.theme.Name
	m.applyInputStyles()
	m.markdown = nil // rebuilt lazily for the new theme
	m.ensureMarkdown()
	m.syncViewport()
	return m, saveThemeCmd(m.cfg)
}

// handleConfigReload applies a config file change from disk. Only the theme
// takes effect immediately; other settings apply on the next request.
func (m Model) handleConfigReload(msg ConfigReloadedMsg) Model {
	if msg.Config == nil {
		return m
	}
	m.cfg = msg.Config
	if msg.Config.UI.Theme != m.theme.Name {
		m.theme = styles.NewTheme(msg.Config.UI.Theme)
		m.applyInputStyles()
		m.markdown = nil
		m.ensureMarkdown()
		m.syncViewport()
	}
	return m
}

// =============================================================================
// REPLY AND REVEAL HANDLING
// =============================================================================

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if msg.Generation != m.generation || m.state != StateAwaitingReply {
		return m, nil
	}

	m.indicator.Stop()

	// An empty reply finalizes immediately as an empty bubble. There is
	// nothing to animate, so no tick is scheduled.
	if msg.Reply == "" {
		m.transcript.AppendBot("")
		m.state = StateIdle
		m.syncViewport()
		return m, nil
	}

	// Seed an empty bot message and animate the content in.
	botMsg := m.transcript.AppendBot("")
	m.state = StateRevealing
	m.revealMsgID = botMsg.ID
	m.revealFull = msg.Reply
	m.revealPos = 0
	m.syncViewport()

	return m, revealTickCmd(m.generation)
}

func (m Model) handleReplyError(msg ReplyErrorMsg) (tea.Model, tea.Cmd) {
	if msg.Generation != m.generation || m.state != StateAwaitingReply {
		return m, nil
	}

	m.indicator.Stop()
	m.state = StateIdle

	m.transcript.AppendError(errorText(msg.Err))
	m.syncViewport()
	return m, nil
}

// errorText maps a transport failure to the message shown in the
// transcript. Server-reported errors keep their message; anything else is
// the connection failure marker.
func errorText(err error) string {
	if msg, ok := transport.IsServerError(err); ok {
		return "Error: " + msg
	}

	var clientErr *transport.ClientError
	if errors.As(err, &clientErr) && clientErr.Type == transport.ErrTypeBadResponse {
		return "Error: " + clientErr.Message
	}

	return networkErrorText
}

func (m Model) handleRevealTick(msg RevealTickMsg) (tea.Model, tea.Cmd) {
	if msg.Generation != m.generation || m.state != StateRevealing {
		return m, nil
	}

	m.revealPos += revealChunkSize
	total := util.RuneLen(m.revealFull)
	if m.revealPos >= total {
		// Final frame: publish the complete text and finish.
		m.transcript.SetLastContent(m.revealMsgID, m.revealFull)
		m.state = StateIdle
		m.revealMsgID = ""
		m.revealFull = ""
		m.revealPos = 0
		m.syncViewport()
		return m, nil
	}

	m.transcript.SetLastContent(m.revealMsgID, util.RunePrefix(m.revealFull, m.revealPos))
	m.syncViewport()
	return m, revealTickCmd(m.generation)
}

// =============================================================================
// LAYOUT AND COMPONENT PLUMBING
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	chromeHeight := 7 // header, input box, status bar
	vpHeight := msg.Height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - 8

	m.ensureMarkdown()
	m.markdown.SetWidth(msg.Width - 8)
	m.syncViewport()
	return m
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) ensureMarkdown() {
	if m.markdown == nil {
		width := m.width - 8
		if width < 20 {
			width = 76
		}
		m.markdown = components.NewMarkdownRenderer(m.theme.IsDark(), width)
	}
}
