// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core chat data structures for termtalk.
//
// A Transcript is an ordered, append-only sequence of Messages. The UI
// renders from the transcript and nothing else; the transcript is the
// single source of truth for what is on screen. Existing messages are
// never mutated except for the one case of the reveal animation, which
// republishes a growing prefix of the newest bot message through
// SetLastContent.
package model
