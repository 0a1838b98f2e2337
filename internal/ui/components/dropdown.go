// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
)

// =============================================================================
// SETTINGS DROPDOWN
// =============================================================================

// DropdownAction identifies a settings menu entry.
type DropdownAction int

const (
	ActionNone DropdownAction = iota
	ActionToggleTheme
	ActionArchiveAll
	ActionDeleteAll
	ActionDeleteAccount
	ActionLogout
)

// DropdownItem is one menu entry.
type DropdownItem struct {
	Label  string
	Key    string
	Action DropdownAction
	Danger bool
}

// SettingsItems are the entries of the settings menu.
var SettingsItems = []DropdownItem{
	{Label: "Toggle dark mode", Key: "t", Action: ActionToggleTheme},
	{Label: "Archive all chats", Key: "a", Action: ActionArchiveAll},
	{Label: "Delete all chats", Key: "d", Action: ActionDeleteAll, Danger: true},
	{Label: "Delete account", Key: "x", Action: ActionDeleteAccount, Danger: true},
	{Label: "Log out", Key: "l", Action: ActionLogout},
}

// Dropdown is a popup menu anchored at the top-right of the screen. While
// open, clicks outside its bounds dismiss it.
type Dropdown struct {
	Items  []DropdownItem
	open   bool
	cursor int

	// Screen position of the top-left corner, set by the parent on render.
	X, Y int
}

// NewSettingsDropdown creates the settings menu, closed.
func NewSettingsDropdown() *Dropdown {
	return &Dropdown{Items: SettingsItems}
}

// IsOpen reports whether the menu is visible.
func (d *Dropdown) IsOpen() bool { return d.open }

// Open shows the menu with the first entry highlighted.
func (d *Dropdown) Open() {
	d.open = true
	d.cursor = 0
}

// Close hides the menu.
func (d *Dropdown) Close() { d.open = false }

// Cursor returns the highlighted index.
func (d *Dropdown) Cursor() int { return d.cursor }

// HandleKey processes a key while open. It returns the chosen action, if
// any; the menu closes on a choice or on esc.
func (d *Dropdown) HandleKey(msg tea.KeyMsg) DropdownAction {
	if !d.open {
		return ActionNone
	}

	switch msg.String() {
	case "up", "k", "shift+tab":
		d.cursor = (d.cursor - 1 + len(d.Items)) % len(d.Items)
	case "down", "j", "tab":
		d.cursor = (d.cursor + 1) % len(d.Items)
	case "enter", " ":
		return d.choose(d.cursor)
	case "esc", "s", "q":
		d.Close()
	default:
		for i, item := range d.Items {
			if msg.String() == item.Key {
				return d.choose(i)
			}
		}
	}
	return ActionNone
}

// HandleMouse processes a click while open. A click on an entry chooses it;
// a click anywhere else dismisses the menu. inside reports whether the
// click landed on the menu.
func (d *Dropdown) HandleMouse(msg tea.MouseMsg) (action DropdownAction, inside bool) {
	if !d.open || msg.Type != tea.MouseLeft {
		return ActionNone, false
	}

	x, y, w, h := d.Bounds()
	if msg.X < x || msg.X >= x+w || msg.Y < y || msg.Y >= y+h {
		d.Close()
		return ActionNone, false
	}

	// One border row above the first entry.
	row := msg.Y - y - 1
	if row >= 0 && row < len(d.Items) {
		return d.choose(row), true
	}
	return ActionNone, true
}

// Bounds returns the rendered position and size of the menu.
func (d *Dropdown) Bounds() (x, y, width, height int) {
	return d.X, d.Y, d.Width(), len(d.Items) + 2
}

// Width returns the rendered width of the menu.
func (d *Dropdown) Width() int {
	longest := 0
	for _, item := range d.Items {
		if w := lipgloss.Width(itemLabel(item)); w > longest {
			longest = w
		}
	}
	// item padding 2, box padding 2, border 2
	return longest + 6
}

func (d *Dropdown) choose(i int) DropdownAction {
	d.cursor = i
	d.Close()
	return d.Items[i].Action
}

// View renders the menu, or "" when closed.
func (d *Dropdown) View(theme *styles.Theme) string {
	if !d.open {
		return ""
	}

	inner := d.Width() - 4
	lines := make([]string, len(d.Items))
	for i, item := range d.Items {
		style := theme.DropdownItem
		switch {
		case i == d.cursor:
			style = theme.DropdownItemSelected
		case item.Danger:
			style = theme.DropdownItemDanger
		}
		lines[i] = style.Width(inner).Render(itemLabel(item))
	}
	return theme.Dropdown.Render(strings.Join(lines, "\n"))
}

func itemLabel(item DropdownItem) string {
	return item.Label + "  (" + item.Key + ")"
}
