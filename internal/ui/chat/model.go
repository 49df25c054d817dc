// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the termtalk TUI.
//
// The view is a strict state machine. Exactly one state is active at any
// time:
//
//	StateIdle          - composer accepts input, submit allowed
//	StateAwaitingReply - request in flight, pending indicator showing
//	StateRevealing     - reply animating into the transcript
//
// Submit is rejected outside StateIdle. Reset is allowed from any state and
// abandons whatever is in flight.
package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/termtalk/internal/config"
	"github.com/jeranaias/termtalk/internal/model"
	"github.com/jeranaias/termtalk/internal/transport"
	"github.com/jeranaias/termtalk/internal/ui/components"
	"github.com/jeranaias/termtalk/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State is the current mode of the chat view.
type State int

const (
	StateIdle          State = iota // Ready for input
	StateAwaitingReply              // Request in flight
	StateRevealing                  // Reply animating in
)

// String returns the state name for logs and tests.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	case StateRevealing:
		return "revealing"
	default:
		return "unknown"
	}
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// revealChunkSize is how many runes each reveal tick appends.
const revealChunkSize = 3

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Conversation
	transcript *model.Transcript

	// Transport
	client *transport.Client

	// Config (theme choice is persisted through it)
	cfg *config.Config

	// Reveal animation. generation invalidates in-flight replies and
	// reveal ticks: any message carrying an older generation is dropped.
	generation  int
	revealMsgID string
	revealFull  string
	revealPos   int

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	indicator components.Indicator
	markdown  *components.MarkdownRenderer

	// Key bindings
	keyMap KeyMap
}

// New creates a chat model wired to the given transport client.
func New(client *transport.Client, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	theme := styles.NewTheme(cfg.UI.Theme)

	greeting := cfg.Chat.Greeting
	m := Model{
		state:      StateIdle,
		theme:      theme,
		transcript: model.NewTranscript(greeting),
		client:     client,
		cfg:        cfg,
		viewport:   vp,
		input:      ti,
		indicator:  components.NewIndicator(),
		markdown:   components.NewMarkdownRenderer(theme.IsDark(), 76),
		keyMap:     DefaultKeyMap(),
	}
	m.applyInputStyles()
	return m
}

// applyInputStyles pushes the current theme onto the composer.
func (m *Model) applyInputStyles() {
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.TextStyle = m.theme.InputText
	m.input.PlaceholderStyle = m.theme.Placeholder
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current state. Exposed for tests.
func (m Model) State() State {
	return m.state
}

// Transcript returns the underlying transcript. Exposed for tests.
func (m Model) Transcript() *model.Transcript {
	return m.transcript
}

// Theme returns the active theme.
func (m Model) Theme() *styles.Theme {
	return m.theme
}
