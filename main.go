// termtalk - a tiny chat app for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/termtalk/internal/config"
	"github.com/jeranaias/termtalk/internal/server"
	"github.com/jeranaias/termtalk/internal/transport"
	"github.com/jeranaias/termtalk/internal/ui/chat"
	"github.com/jeranaias/termtalk/internal/upstream"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "", "chat":
		runTUI()
	case "serve":
		runServer()
	case "version", "--version", "-v":
		fmt.Printf("termtalk %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`termtalk - a tiny chat app for the terminal

Usage:
  termtalk          start the chat interface
  termtalk serve    run the local chat server
  termtalk version  print version information

The chat interface talks to the server at the URL configured in
~/.termtalk/config.toml (TERMTALK_SERVER_URL overrides it).`)
}

// runTUI starts the chat interface.
func runTUI() {
	cfg := config.Global()

	client := transport.NewClientWithConfig(&transport.ClientConfig{
		BaseURL: cfg.Chat.ServerURL,
	})

	m := chat.New(client, cfg)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// External edits to the config file re-theme the running UI.
	if path, err := config.ConfigPath(); err == nil {
		watcher, werr := config.NewWatcher(path, func(updated *config.Config) {
			p.Send(chat.ConfigReloadedMsg{Config: updated})
		})
		if werr == nil && watcher.Watch() == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running termtalk: %v\n", err)
		os.Exit(1)
	}
}

// runServer starts the local chat server and blocks until SIGINT/SIGTERM.
func runServer() {
	cfg := config.Global()

	srv := server.NewServer(cfg.Server.Port).
		WithMaxHistory(cfg.Server.MaxHistory)

	if cfg.Upstream.APIKey != "" {
		srv.WithUpstream(
			upstream.NewClient(cfg.Upstream.APIKey).
				WithBaseURL(cfg.Upstream.BaseURL).
				WithModel(cfg.Upstream.Model))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error running chat server: %v\n", err)
		os.Exit(1)
	}
}
