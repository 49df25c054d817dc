// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/termtalk/internal/config"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// Every async message carries the generation it was issued under. The
// update loop drops messages from older generations, which is how abandoned
// requests and cancelled reveals stay harmless.

// ReplyMsg delivers a successful reply from the chat server.
type ReplyMsg struct {
	Generation int
	Reply      string
}

// ReplyErrorMsg delivers a failed request.
type ReplyErrorMsg struct {
	Generation int
	Err        error
}

// RevealTickMsg advances the reveal animation by one chunk.
type RevealTickMsg struct {
	Generation int
	Time       time.Time
}

// ResetDoneMsg reports the outcome of a server-side reset. Failures are
// logged and otherwise ignored: the local transcript already reset.
type ResetDoneMsg struct {
	Err error
}

// ThemeSavedMsg reports the outcome of persisting a theme change.
type ThemeSavedMsg struct {
	Err error
}

// ConfigReloadedMsg carries a freshly loaded config after the file changed
// on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}
