// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the termtalk TUI.
//
// Unlike terminals that auto-detect background color, termtalk carries an
// explicit theme choice ("dark" or "light") in its config, so each palette
// is a concrete set of colors rather than adaptive pairs.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// Palettes
// =============================================================================

// Palette is the set of colors a theme builds its styles from.
type Palette struct {
	// Accents
	Accent     lipgloss.Color // brand color, header, focus
	AccentSoft lipgloss.Color // borders, subtle highlights

	// Semantic
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	// Surfaces
	Surface    lipgloss.Color // main background
	SurfaceDim lipgloss.Color // header/footer background
	Overlay    lipgloss.Color // separators, subtle borders

	// Text
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	// Message bubbles
	UserFg       lipgloss.Color
	UserBorder   lipgloss.Color
	BotFg        lipgloss.Color
	BotBorder    lipgloss.Color
	SystemFg     lipgloss.Color
	SystemBorder lipgloss.Color
}

// DarkPalette is the default look: Catppuccin Mocha tones.
func DarkPalette() Palette {
	return Palette{
		Accent:     lipgloss.Color("#22D3EE"),
		AccentSoft: lipgloss.Color("#A78BFA"),

		Success: lipgloss.Color("#34D399"),
		Error:   lipgloss.Color("#FB7185"),
		Warning: lipgloss.Color("#FBBF24"),

		Surface:    lipgloss.Color("#1E1E2E"),
		SurfaceDim: lipgloss.Color("#181825"),
		Overlay:    lipgloss.Color("#313244"),

		Text:          lipgloss.Color("#CDD6F4"),
		TextSecondary: lipgloss.Color("#A6ADC8"),
		TextMuted:     lipgloss.Color("#6C7086"),

		UserFg:       lipgloss.Color("#E0F2FE"),
		UserBorder:   lipgloss.Color("#3B82F6"),
		BotFg:        lipgloss.Color("#E9E4F5"),
		BotBorder:    lipgloss.Color("#A78BFA"),
		SystemFg:     lipgloss.Color("#FEF3C7"),
		SystemBorder: lipgloss.Color("#F59E0B"),
	}
}

// LightPalette mirrors the dark palette in Catppuccin Latte tones.
func LightPalette() Palette {
	return Palette{
		Accent:     lipgloss.Color("#0891B2"),
		AccentSoft: lipgloss.Color("#7C3AED"),

		Success: lipgloss.Color("#059669"),
		Error:   lipgloss.Color("#E11D48"),
		Warning: lipgloss.Color("#D97706"),

		Surface:    lipgloss.Color("#FFFFFF"),
		SurfaceDim: lipgloss.Color("#F5F5F5"),
		Overlay:    lipgloss.Color("#E5E5E5"),

		Text:          lipgloss.Color("#1F2937"),
		TextSecondary: lipgloss.Color("#6B7280"),
		TextMuted:     lipgloss.Color("#9CA3AF"),

		UserFg:       lipgloss.Color("#1E40AF"),
		UserBorder:   lipgloss.Color("#3B82F6"),
		BotFg:        lipgloss.Color("#5B4B8A"),
		BotBorder:    lipgloss.Color("#C4B5FD"),
		SystemFg:     lipgloss.Color("#92400E"),
		SystemBorder: lipgloss.Color("#F59E0B"),
	}
}

// ANSIDarkPalette approximates the dark palette with the 16-color ANSI
// set for terminals that cannot render hex colors.
func ANSIDarkPalette() Palette {
	return Palette{
		Accent:     lipgloss.Color("14"), // bright cyan
		AccentSoft: lipgloss.Color("13"), // bright magenta

		Success: lipgloss.Color("10"),
		Error:   lipgloss.Color("9"),
		Warning: lipgloss.Color("11"),

		Surface:    lipgloss.Color("0"),
		SurfaceDim: lipgloss.Color("0"),
		Overlay:    lipgloss.Color("8"),

		Text:          lipgloss.Color("15"),
		TextSecondary: lipgloss.Color("7"),
		TextMuted:     lipgloss.Color("8"),

		UserFg:       lipgloss.Color("15"),
		UserBorder:   lipgloss.Color("12"),
		BotFg:        lipgloss.Color("15"),
		BotBorder:    lipgloss.Color("13"),
		SystemFg:     lipgloss.Color("11"),
		SystemBorder: lipgloss.Color("3"),
	}
}

// ANSILightPalette approximates the light palette with the 16-color ANSI
// set.
func ANSILightPalette() Palette {
	return Palette{
		Accent:     lipgloss.Color("6"), // cyan
		AccentSoft: lipgloss.Color("5"), // magenta

		Success: lipgloss.Color("2"),
		Error:   lipgloss.Color("1"),
		Warning: lipgloss.Color("3"),

		Surface:    lipgloss.Color("15"),
		SurfaceDim: lipgloss.Color("7"),
		Overlay:    lipgloss.Color("7"),

		Text:          lipgloss.Color("0"),
		TextSecondary: lipgloss.Color("8"),
		TextMuted:     lipgloss.Color("8"),

		UserFg:       lipgloss.Color("4"),
		UserBorder:   lipgloss.Color("12"),
		BotFg:        lipgloss.Color("5"),
		BotBorder:    lipgloss.Color("13"),
		SystemFg:     lipgloss.Color("3"),
		SystemBorder: lipgloss.Color("3"),
	}
}

// PaletteFor returns the palette for a theme name. Anything that is not
// "light" gets the dark palette.
func PaletteFor(name string) Palette {
	if name == "light" {
		return LightPalette()
	}
	return DarkPalette()
}

// PaletteForProfile returns the palette adjusted to the terminal's color
// capability. Truecolor and 256-color terminals take the hex palettes;
// anything weaker falls back to hand-picked ANSI codes rather than
// letting downsampling choose approximations.
func PaletteForProfile(name string, profile termenv.Profile) Palette {
	if profile > termenv.ANSI256 {
		if name == "light" {
			return ANSILightPalette()
		}
		return ANSIDarkPalette()
	}
	return PaletteFor(name)
}
