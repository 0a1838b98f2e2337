// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// DROPDOWN
// =============================================================================

func TestDropdown_Keyboard(t *testing.T) {
	d := NewSettingsDropdown()
	assert.Equal(t, ActionNone, d.HandleKey(keyType(tea.KeyEnter)), "closed menu ignores keys")

	d.Open()
	assert.True(t, d.IsOpen())
	d.HandleKey(keyType(tea.KeyDown))
	d.HandleKey(keyType(tea.KeyDown))
	assert.Equal(t, 2, d.Cursor())

	assert.Equal(t, ActionDeleteAll, d.HandleKey(keyType(tea.KeyEnter)))
	assert.False(t, d.IsOpen())

	d.Open()
	d.HandleKey(keyType(tea.KeyUp))
	assert.Equal(t, len(d.Items)-1, d.Cursor(), "wraps around")

	assert.Equal(t, ActionArchiveAll, d.HandleKey(keyRunes("a")))

	d.Open()
	assert.Equal(t, ActionNone, d.HandleKey(keyType(tea.KeyEsc)))
	assert.False(t, d.IsOpen())
}

func TestDropdown_Mouse(t *testing.T) {
	d := NewSettingsDropdown()
	d.X, d.Y = 50, 1
	d.Open()

	x, y, w, h := d.Bounds()
	assert.Equal(t, len(d.Items)+2, h)

	// Second entry: one border row, then rows in order.
	action, inside := d.HandleMouse(click(x+2, y+2))
	assert.True(t, inside)
	assert.Equal(t, ActionArchiveAll, action)
	assert.False(t, d.IsOpen())

	d.Open()
	action, inside = d.HandleMouse(click(x+w+3, y))
	assert.False(t, inside)
	assert.Equal(t, ActionNone, action)
	assert.False(t, d.IsOpen(), "outside click dismisses")

	d.Open()
	action, inside = d.HandleMouse(click(x+1, y))
	assert.True(t, inside, "border belongs to the menu")
	assert.Equal(t, ActionNone, action)
	assert.True(t, d.IsOpen())
}

func TestDropdown_View(t *testing.T) {
	d := NewSettingsDropdown()
	assert.Empty(t, d.View(testTheme()))

	d.Open()
	out := d.View(testTheme())
	for _, item := range d.Items {
		assert.Contains(t, out, item.Label)
	}
}

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

func TestConfirmDialog(t *testing.T) {
	c := NewConfirmDialog("Delete?")
	assert.False(t, c.YesFocused())

	done, result := c.HandleKey(keyType(tea.KeyEnter))
	assert.True(t, done)
	assert.False(t, result, "enter on the default button declines")

	c = NewConfirmDialog("Delete?")
	done, _ = c.HandleKey(keyType(tea.KeyTab))
	assert.False(t, done)
	assert.True(t, c.YesFocused())
	done, result = c.HandleKey(keyType(tea.KeyEnter))
	assert.True(t, done)
	assert.True(t, result)

	done, result = NewConfirmDialog("x").HandleKey(keyRunes("y"))
	assert.True(t, done && result)

	done, result = NewConfirmDialog("x").HandleKey(keyType(tea.KeyEsc))
	assert.True(t, done)
	assert.False(t, result)

	done, _ = NewConfirmDialog("x").HandleKey(keyRunes("z"))
	assert.False(t, done)
}

func TestConfirmDialog_View(t *testing.T) {
	out := NewConfirmDialog("Are you sure you want to delete all chats?").View(testTheme())
	assert.Contains(t, out, "delete all chats")
	assert.Contains(t, out, "Yes (y)")
	assert.Contains(t, out, "No (n)")
}
