// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
)

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// ConfirmDialog is a modal yes/no question. The "No" button has focus
// initially so a stray enter never confirms a destructive action.
type ConfirmDialog struct {
	Prompt string
	yes    bool
}

// NewConfirmDialog creates a dialog for prompt.
func NewConfirmDialog(prompt string) *ConfirmDialog {
	return &ConfirmDialog{Prompt: prompt}
}

// YesFocused reports whether the confirm button has focus.
func (c *ConfirmDialog) YesFocused() bool { return c.yes }

// HandleKey processes a key. done reports whether the dialog was answered
// and result holds the answer.
func (c *ConfirmDialog) HandleKey(msg tea.KeyMsg) (done, result bool) {
	switch msg.String() {
	case "y", "Y":
		return true, true
	case "n", "N", "esc", "ctrl+c", "q":
		return true, false
	case "left", "right", "tab", "shift+tab", "h", "l":
		c.yes = !c.yes
	case "enter", " ":
		return true, c.yes
	}
	return false, false
}

// View renders the dialog box.
func (c *ConfirmDialog) View(theme *styles.Theme) string {
	yes := theme.DialogButton.Render("Yes (y)")
	no := theme.DialogButton.Render("No (n)")
	if c.yes {
		yes = theme.DialogButtonDanger.Render("Yes (y)")
	} else {
		no = theme.DialogButtonActive.Render("No (n)")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.DialogText.Render(c.Prompt),
		lipgloss.JoinHorizontal(lipgloss.Top, no, yes),
	)
	return theme.DialogBox.Render(body)
}
