// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/termtalk/internal/config"
	"github.com/jeranaias/termtalk/internal/transport"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// revealInterval is the time between reveal animation frames.
const revealInterval = 16 * time.Millisecond

// sendCmd posts a message to the chat server.
func sendCmd(client *transport.Client, generation int, message string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reply, err := client.Send(ctx, message)
		if err != nil {
			return ReplyErrorMsg{Generation: generation, Err: err}
		}
		return ReplyMsg{Generation: generation, Reply: reply}
	}
}

// resetCmd clears the server-side session.
func resetCmd(client *transport.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ResetDoneMsg{Err: client.Reset(ctx)}
	}
}

// revealTickCmd schedules the next reveal animation frame.
func revealTickCmd(generation int) tea.Cmd {
	return tea.Tick(revealInterval, func(t time.Time) tea.Msg {
		return RevealTickMsg{Generation: generation, Time: t}
	})
}

// saveThemeCmd persists the theme choice to the config file.
func saveThemeCmd(cfg *config.Config) tea.Cmd {
	snapshot := cfg.Clone()
	return func() tea.Msg {
		return ThemeSavedMsg{Err: config.Save(snapshot)}
	}
}
