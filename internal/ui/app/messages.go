// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/session"
	"github.com/jeranaias/chatwithdata-tui/internal/ui/components"
)

// navigateMsg is signalled by the session store after a state change.
type navigateMsg struct {
	view session.View
}

// confirmRequestMsg asks the user a yes/no question on behalf of the
// controller. Exactly one value is sent on reply.
type confirmRequestMsg struct {
	prompt string
	reply  chan<- bool
}

// authDoneMsg reports a login or signup attempt.
type authDoneMsg struct {
	form components.FormKind
	err  error
}

// resetDoneMsg reports a password reset request.
type resetDoneMsg struct {
	err error
}

// passwordSetMsg reports a completed password reset.
type passwordSetMsg struct {
	err error
}

// historyMsg carries a refreshed chat list.
type historyMsg struct {
	chats []model.ChatSummary
	err   error
}

// chatMsg carries the thread of a selected chat.
type chatMsg struct {
	id   string
	chat model.Chat
	err  error
}

// opDoneMsg reports the end of a mutating controller operation. The
// controller has already notified and refreshed.
type opDoneMsg struct {
	name string
	err  error
}

// credentialsChangedMsg reports an external change to the credential file.
type credentialsChangedMsg struct{}

// watchStoppedMsg reports that the credential watcher ended.
type watchStoppedMsg struct{}
