// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatwithdata-tui/internal/chats"
	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom row: the pending operation on the left and key
// hints on the right.
type StatusBar struct {
	Width   int
	Pending chats.Operation
	Spinner string
	Message string
	Hints   []key.Binding
}

// NewStatusBar creates an idle status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{Width: 80}
}

// PendingLabel describes an operation for the status bar.
func PendingLabel(op chats.Operation) string {
	switch {
	case op.Idle():
		return ""
	case op == chats.OpUpload:
		return "Uploading..."
	case op == chats.OpDeleteAll:
		return "Deleting all chats..."
	case op == chats.OpArchiveAll:
		return "Archiving all chats..."
	case op == chats.OpDeleteAccount:
		return "Deleting account..."
	case strings.HasPrefix(string(op), "edit-"):
		return "Renaming chat..."
	case strings.HasPrefix(string(op), "delete-"):
		return "Deleting chat..."
	case strings.HasPrefix(string(op), "archive-"):
		return "Archiving chat..."
	default:
		return "Working..."
	}
}

// View renders the status bar.
func (s *StatusBar) View(theme *styles.Theme) string {
	var left string
	switch {
	case !s.Pending.Idle():
		left = theme.Spinner.Render(s.Spinner) + " " + theme.StatusBusy.Render(PendingLabel(s.Pending))
	case s.Message != "":
		left = theme.StatusText.Render(s.Message)
	default:
		left = theme.StatusText.Render(styles.StatusIndicators.Success + " Ready")
	}

	var hints []string
	for _, b := range s.Hints {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, theme.ShortcutKey.Render(h.Key)+" "+theme.ShortcutDesc.Render(h.Desc))
	}

	// Drop hints from the end until they fit.
	right := strings.Join(hints, "  ")
	for len(hints) > 0 && lipgloss.Width(left)+lipgloss.Width(right)+4 > s.Width {
		hints = hints[:len(hints)-1]
		right = strings.Join(hints, "  ")
	}

	gap := max(s.Width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	row := left + strings.Repeat(" ", gap) + right
	return theme.StatusBar.Width(s.Width).MaxWidth(s.Width).Render(row)
}
