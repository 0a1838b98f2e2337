// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatwithdata-tui/internal/ui/components"
)

// =============================================================================
// SESSION COMMANDS
// =============================================================================

func (m Model) loginCmd(email, password string) tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return authDoneMsg{form: components.FormLogin, err: s.Login(ctx, email, password)}
	}
}

func (m Model) signupCmd(name, email, password string) tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return authDoneMsg{form: components.FormSignup, err: s.Signup(ctx, name, email, password)}
	}
}

func (m Model) resetCmd(email string) tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return resetDoneMsg{err: s.RequestPasswordReset(ctx, email)}
	}
}

func (m Model) newPasswordCmd(token, password string) tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return passwordSetMsg{err: s.CompletePasswordReset(ctx, token, password)}
	}
}

// logoutCmd ends the session off the event loop, since the store signals
// navigation through the bridge.
func (m Model) logoutCmd() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		s.Logout()
		return opDoneMsg{name: "logout"}
	}
}

// watchCmd waits for one credential change and re-syncs the session.
func (m Model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ctx, w, s := m.ctx, m.watcher, m.session
	return func() tea.Msg {
		if !w.Wait(ctx) {
			return watchStoppedMsg{}
		}
		s.Sync()
		return credentialsChangedMsg{}
	}
}

// =============================================================================
// CHAT COMMANDS
// =============================================================================

func (m Model) refreshCmd() tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		list, err := c.Refresh(ctx)
		return historyMsg{chats: list, err: err}
	}
}

func (m Model) selectCmd(id string) tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		chat, err := c.Select(ctx, id)
		return chatMsg{id: id, chat: chat, err: err}
	}
}

func (m Model) uploadCmd(paths []string) tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		_, err := c.Upload(ctx, paths...)
		return opDoneMsg{name: "upload", err: err}
	}
}

func (m Model) renameCmd(id, title string) tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{name: "rename", err: c.Rename(ctx, id, title)}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{name: "delete", err: c.Delete(ctx, id)}
	}
}

func (m Model) archiveCmd(id string) tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{name: "archive", err: c.Archive(ctx, id)}
	}
}

func (m Model) deleteAllCmd() tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{name: "delete-all", err: c.DeleteAll(ctx)}
	}
}

func (m Model) archiveAllCmd() tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{name: "archive-all", err: c.ArchiveAll(ctx)}
	}
}

func (m Model) deleteAccountCmd() tea.Cmd {
	ctx, c := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{name: "delete-account", err: c.DeleteAccount(ctx)}
	}
}
