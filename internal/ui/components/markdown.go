// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// MarkdownRenderer renders finalized bot replies as terminal markdown. It is
// rebuilt when the wrap width changes.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	dark     bool
}

// NewMarkdownRenderer creates a renderer for the given theme and width.
func NewMarkdownRenderer(dark bool, width int) *MarkdownRenderer {
	m := &MarkdownRenderer{dark: dark}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the underlying renderer if the width changed.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if m.renderer != nil && m.width == width {
		return
	}

	style := glamour.WithStandardStyle("light")
	if m.dark {
		style = glamour.WithStandardStyle("dark")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		// Fall back to plain text rendering.
		m.renderer = nil
		m.width = width
		return
	}
	m.renderer = r
	m.width = width
}

// Render converts markdown to styled terminal text. On any failure the raw
// text comes back unchanged.
func (m *MarkdownRenderer) Render(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
