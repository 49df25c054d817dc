// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/termtalk/internal/config"
	"github.com/jeranaias/termtalk/internal/transport"
	"github.com/jeranaias/termtalk/internal/util"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(transport.NewClient(), config.Default())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func typeAndSubmit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestNewModelState(t *testing.T) {
	m := newTestModel(t)

	if m.State() != StateIdle {
		t.Errorf("initial state = %v, want %v", m.State(), StateIdle)
	}
	if m.Transcript().Len() != 1 {
		t.Errorf("initial transcript length = %d, want 1 (greeting)", m.Transcript().Len())
	}
	if !m.Transcript().Last().IsBot() {
		t.Error("greeting is not a bot message")
	}
}

func TestSubmitAppendsUserBeforeIndicator(t *testing.T) {
	m := newTestModel(t)

	m, cmd := typeAndSubmit(t, m, "hello")

	if m.State() != StateAwaitingReply {
		t.Errorf("state after submit = %v, want %v", m.State(), StateAwaitingReply)
	}
	last := m.Transcript().Last()
	if !last.IsUser() || last.Content != "hello" {
		t.Errorf("last message = %v %q, want user %q", last.Role, last.Content, "hello")
	}
	if !m.indicator.Active() {
		t.Error("indicator inactive after submit")
	}
	if cmd == nil {
		t.Error("submit returned nil command")
	}
	if m.input.Value() != "" {
		t.Errorf("composer not cleared, still %q", m.input.Value())
	}
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	m := newTestModel(t)

	m, cmd := typeAndSubmit(t, m, "   ")

	if m.State() != StateIdle {
		t.Errorf("state = %v, want %v", m.State(), StateIdle)
	}
	if m.Transcript().Len() != 1 {
		t.Errorf("transcript length = %d, want 1", m.Transcript().Len())
	}
	if cmd != nil {
		t.Error("blank submit returned a command")
	}
}

func TestSubmitRejectedOutsideIdle(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "first")

	before := m.Transcript().Len()
	m, cmd := typeAndSubmit(t, m, "second")

	if cmd != nil {
		t.Error("submit while awaiting reply returned a command")
	}
	if m.Transcript().Len() != before {
		t.Errorf("transcript length = %d, want %d", m.Transcript().Len(), before)
	}
	if got := m.input.Value(); got != "second" {
		t.Errorf("composer = %q, want %q (rejected input kept)", got, "second")
	}
}

func TestReplyStartsReveal(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")

	updated, cmd := m.Update(ReplyMsg{Generation: m.generation, Reply: "hello there"})
	m = updated.(Model)

	if m.State() != StateRevealing {
		t.Errorf("state = %v, want %v", m.State(), StateRevealing)
	}
	if m.indicator.Active() {
		t.Error("indicator still active after reply arrived")
	}
	last := m.Transcript().Last()
	if !last.IsBot() || last.Content != "" {
		t.Errorf("reveal seed = %v %q, want empty bot message", last.Role, last.Content)
	}
	if cmd == nil {
		t.Error("reply returned nil command, want reveal tick")
	}
}

func TestRevealAdvancesInChunks(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")
	updated, _ := m.Update(ReplyMsg{Generation: m.generation, Reply: "hello world"})
	m = updated.(Model)

	updated, cmd := m.Update(RevealTickMsg{Generation: m.generation})
	m = updated.(Model)

	if got := m.Transcript().Last().Content; got != "hel" {
		t.Errorf("content after first tick = %q, want %q", got, "hel")
	}
	if cmd == nil {
		t.Error("mid-reveal tick returned nil command")
	}

	updated, _ = m.Update(RevealTickMsg{Generation: m.generation})
	m = updated.(Model)
	if got := m.Transcript().Last().Content; got != "hello " {
		t.Errorf("content after second tick = %q, want %q", got, "hello ")
	}
}

func TestRevealCompletes(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")
	updated, _ := m.Update(ReplyMsg{Generation: m.generation, Reply: "ok!"})
	m = updated.(Model)

	updated, cmd := m.Update(RevealTickMsg{Generation: m.generation})
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state after final tick = %v, want %v", m.State(), StateIdle)
	}
	if got := m.Transcript().Last().Content; got != "ok!" {
		t.Errorf("final content = %q, want %q", got, "ok!")
	}
	if cmd != nil {
		t.Error("final tick returned a command, want nil")
	}
}

func TestEmptyReplyCompletesWithoutReveal(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")

	updated, cmd := m.Update(ReplyMsg{Generation: m.generation, Reply: ""})
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state after empty reply = %v, want %v", m.State(), StateIdle)
	}
	last := m.Transcript().Last()
	if !last.IsBot() || last.Content != "" {
		t.Errorf("last message = %v %q, want empty bot message", last.Role, last.Content)
	}
	if cmd != nil {
		t.Error("empty reply scheduled a command, want nil")
	}
	if m.indicator.Active() {
		t.Error("indicator still active after empty reply")
	}
}

func TestRevealHandlesMultibyteRunes(t *testing.T) {
	reply := "héllo wörld"
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")
	updated, _ := m.Update(ReplyMsg{Generation: m.generation, Reply: reply})
	m = updated.(Model)

	for m.State() == StateRevealing {
		updated, _ = m.Update(RevealTickMsg{Generation: m.generation})
		m = updated.(Model)
	}

	if got := m.Transcript().Last().Content; got != reply {
		t.Errorf("final content = %q, want %q", got, reply)
	}
	if util.RuneLen(reply) != 11 {
		t.Fatalf("test fixture rune length = %d, want 11", util.RuneLen(reply))
	}
}

func TestStaleGenerationIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")
	stale := m.generation

	// Reset abandons the in-flight request.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)

	updated, cmd := m.Update(ReplyMsg{Generation: stale, Reply: "too late"})
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want %v", m.State(), StateIdle)
	}
	if m.Transcript().Len() != 1 {
		t.Errorf("transcript length = %d, want 1 (stale reply dropped)", m.Transcript().Len())
	}
	if cmd != nil {
		t.Error("stale reply returned a command")
	}
}

func TestStaleRevealTickIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")
	updated, _ := m.Update(ReplyMsg{Generation: m.generation, Reply: "hello world"})
	m = updated.(Model)
	stale := m.generation

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)

	updated, cmd := m.Update(RevealTickMsg{Generation: stale})
	m = updated.(Model)

	if cmd != nil {
		t.Error("stale reveal tick returned a command")
	}
	if m.Transcript().Len() != 1 {
		t.Errorf("transcript length = %d, want 1", m.Transcript().Len())
	}
}

func TestServerErrorRendered(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")

	err := &transport.ClientError{Type: transport.ErrTypeServer, Message: "boom"}
	updated, _ := m.Update(ReplyErrorMsg{Generation: m.generation, Err: err})
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want %v", m.State(), StateIdle)
	}
	last := m.Transcript().Last()
	if !last.IsBot() || last.Content != "Error: boom" {
		t.Errorf("error message = %q, want %q", last.Content, "Error: boom")
	}
	if !last.Error {
		t.Error("error message not flagged as error")
	}
}

func TestConnectionErrorRendered(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")

	err := &transport.ClientError{Type: transport.ErrTypeConnection, Message: "chat server is not reachable"}
	updated, _ := m.Update(ReplyErrorMsg{Generation: m.generation, Err: err})
	m = updated.(Model)

	if got := m.Transcript().Last().Content; got != networkErrorText {
		t.Errorf("error message = %q, want %q", got, networkErrorText)
	}
}

func TestResetFromAnyState(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "hi")
	updated, _ := m.Update(ReplyMsg{Generation: m.generation, Reply: "long reply text here"})
	m = updated.(Model)

	if m.State() != StateRevealing {
		t.Fatalf("state = %v, want %v", m.State(), StateRevealing)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state after reset = %v, want %v", m.State(), StateIdle)
	}
	if m.Transcript().Len() != 1 {
		t.Errorf("transcript length = %d, want 1 (greeting only)", m.Transcript().Len())
	}
	if m.indicator.Active() {
		t.Error("indicator active after reset")
	}
	if cmd == nil {
		t.Error("reset returned nil command, want server reset")
	}
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t)
	if !m.Theme().IsDark() {
		t.Fatal("default theme is not dark")
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)

	if m.Theme().IsDark() {
		t.Error("theme still dark after toggle")
	}
	if m.cfg.UI.Theme != "light" {
		t.Errorf("config theme = %q, want %q", m.cfg.UI.Theme, "light")
	}
	if cmd == nil {
		t.Error("toggle returned nil command, want save")
	}
}

func TestConfigReloadRethemes(t *testing.T) {
	m := newTestModel(t)

	reloaded := config.Default()
	reloaded.UI.Theme = "light"

	updated, _ := m.Update(ConfigReloadedMsg{Config: reloaded})
	m = updated.(Model)

	if m.Theme().IsDark() {
		t.Error("theme still dark after reload with light config")
	}

	updated, _ = m.Update(ConfigReloadedMsg{Config: nil})
	m = updated.(Model)
	if m.Theme().IsDark() {
		t.Error("nil reload changed the theme")
	}
}

func TestEscClearsComposer(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("half-typed thought")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	if m.input.Value() != "" {
		t.Errorf("composer = %q, want empty", m.input.Value())
	}
}

func TestViewShowsTranscript(t *testing.T) {
	m := newTestModel(t)
	m, _ = typeAndSubmit(t, m, "what is 2+2")

	view := m.View()
	if !strings.Contains(view, "what is 2+2") {
		t.Error("view does not contain the submitted message")
	}
	if !strings.Contains(view, "termtalk") {
		t.Error("view does not contain the header")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateAwaitingReply, "awaiting_reply"},
		{StateRevealing, "revealing"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"server error keeps message",
			&transport.ClientError{Type: transport.ErrTypeServer, Message: "boom"},
			"Error: boom",
		},
		{
			"bad response keeps message",
			&transport.ClientError{Type: transport.ErrTypeBadResponse, Message: "invalid response from server"},
			"Error: invalid response from server",
		},
		{
			"connection error uses marker",
			&transport.ClientError{Type: transport.ErrTypeConnection, Message: "unreachable"},
			networkErrorText,
		},
		{
			"timeout uses marker",
			&transport.ClientError{Type: transport.ErrTypeTimeout, Message: "timed out"},
			networkErrorText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorText(tt.err); got != tt.want {
				t.Errorf("errorText() = %q, want %q", got, tt.want)
			}
		})
	}
}
