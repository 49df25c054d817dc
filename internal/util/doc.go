// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the termtalk application.
//
// String helpers are rune-aware so UTF-8 content is never split
// mid-character, and display-width functions account for double-width
// (CJK) characters via go-runewidth. AtomicWriteFile backs the config
// save path with a crash-safe write-temp-then-rename sequence.
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateRunes(longText, 50)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600)
package util
