// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ThemeDark and ThemeLight are the two theme names the config accepts.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Name is "dark" or "light".
	Name string

	// ColorProfile is the detected terminal capability.
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderHint  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble   lipgloss.Style
	UserLabel    lipgloss.Style
	BotBubble    lipgloss.Style
	BotLabel     lipgloss.Style
	SystemNotice lipgloss.Style
	ErrorText    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	InputText      lipgloss.Style
	Placeholder    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// PENDING INDICATOR STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
}

// NewTheme creates a theme for the given name. Unknown names fall back to
// dark. The terminal's color capability decides whether the hex palettes
// or their ANSI fallbacks are used.
func NewTheme(name string) *Theme {
	if name != ThemeLight {
		name = ThemeDark
	}

	t := &Theme{
		Name:         name,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles(PaletteForProfile(name, t.ColorProfile))
	return t
}

// initStyles initializes all the lip gloss styles from a palette.
func (t *Theme) initStyles(p Palette) {
	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.AccentSoft).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.AccentSoft)

	t.HeaderHint = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.UserBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.UserBorder)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(p.BotFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.BotBorder).
		Padding(0, 1).
		MarginRight(4)

	t.BotLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.BotBorder)

	t.SystemNotice = lipgloss.NewStyle().
		Foreground(p.SystemFg).
		Italic(true)

	t.ErrorText = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Error)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.InputText = lipgloss.NewStyle().
		Foreground(p.Text)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Background(p.SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Pending indicator
	t.Spinner = lipgloss.NewStyle().
		Foreground(p.AccentSoft)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)
}

// IsDark reports whether this is the dark theme.
func (t *Theme) IsDark() bool {
	return t.Name == ThemeDark
}

// Toggle returns the other theme.
func (t *Theme) Toggle() *Theme {
	if t.IsDark() {
		return NewTheme(ThemeLight)
	}
	return NewTheme(ThemeDark)
}
