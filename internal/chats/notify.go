// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chats

import "context"

// Level is the severity of a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelWarning
	LevelError
)

// Notifier shows transient, non-blocking messages.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// Confirmer asks the user a yes/no question. It may block until answered
// and must return false when ctx is done.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

type nopNotifier struct{}

func (nopNotifier) Notify(Level, string) {}

// Notification and confirmation texts.
const (
	PromptDeleteChat    = "Are you sure you want to delete this chat?"
	PromptArchiveChat   = "Are you sure you want to archive this chat?"
	PromptDeleteAll     = "Are you sure you want to delete all chats?"
	PromptArchiveAll    = "Are you sure you want to archive all chats?"
	PromptDeleteAccount = "Are you sure you want to delete your account? This action cannot be undone."

	MsgUploaded       = "File uploaded successfully"
	MsgUploadFailed   = "Failed to upload file"
	MsgRenamed        = "Chat renamed"
	MsgRenameFailed   = "Failed to rename chat"
	MsgDeleted        = "Chat deleted"
	MsgDeleteFailed   = "Failed to delete chat"
	MsgArchived       = "Chat archived"
	MsgArchiveFailed  = "Failed to archive chat"
	MsgDeletedAll     = "All chats deleted successfully"
	MsgDeleteAllFail  = "Failed to delete chats"
	MsgArchivedAll    = "All chats archived successfully"
	MsgArchiveAllFail = "Failed to archive chats"
	MsgAccountFailed  = "Failed to delete account"
	MsgAccountDeleted = "Your account has been deleted"
	MsgLoadFailed     = "Failed to load chats"
	MsgChatFailed     = "Failed to load chat"
	MsgEmptyTitle     = "Title cannot be empty"

	MsgDemoUnavailable = "Not available in the demo session. Sign in with an account to use it."
)
