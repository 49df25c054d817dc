// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the termtalk TUI.
package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/termtalk/internal/ui/styles"
)

// =============================================================================
// PENDING INDICATOR
// =============================================================================

// Indicator is the animated "waiting for a reply" marker shown between
// sending a message and receiving the reply.
type Indicator struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	active    bool
}

// NewIndicator creates an indicator with ASCII-safe frames.
func NewIndicator() Indicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return Indicator{
		spinner: s,
		message: "Thinking",
	}
}

// Start activates the indicator and returns the tick command that drives
// the animation.
func (i *Indicator) Start() tea.Cmd {
	i.active = true
	i.startTime = time.Now()
	return i.spinner.Tick
}

// Stop deactivates the indicator.
func (i *Indicator) Stop() {
	i.active = false
}

// Active reports whether the indicator is showing.
func (i *Indicator) Active() bool {
	return i.active
}

// SetMessage overrides the text shown next to the spinner.
func (i *Indicator) SetMessage(msg string) {
	i.message = msg
}

// Update advances the spinner animation. It returns a nil command when the
// indicator is inactive, which stops the tick loop.
func (i *Indicator) Update(msg tea.Msg) tea.Cmd {
	if !i.active {
		return nil
	}
	var cmd tea.Cmd
	i.spinner, cmd = i.spinner.Update(msg)
	return cmd
}

// View renders the indicator line. Empty when inactive.
func (i *Indicator) View(theme *styles.Theme) string {
	if !i.active {
		return ""
	}

	line := theme.Spinner.Render(i.spinner.View()) + " " +
		theme.ThinkingText.Render(i.message+"...")

	if elapsed := time.Since(i.startTime); elapsed > 2*time.Second {
		line += " " + theme.ThinkingText.Render("("+elapsed.Round(time.Second).String()+")")
	}
	return line
}
