// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
	"github.com/jeranaias/chatwithdata-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// SettingsLabel is the header button that opens the settings dropdown.
const SettingsLabel = "[=] Settings (s)"

// Header is the title bar of the home screen.
type Header struct {
	Title string
	User  string // display name of the signed-in user
	Width int
}

// NewHeader creates a header with the product name.
func NewHeader() *Header {
	return &Header{Title: "chatwithdata", Width: 80}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) { h.Width = width }

// SetUser updates the displayed user.
func (h *Header) SetUser(name string) { h.User = name }

// SettingsBounds returns the column range of the settings button.
func (h *Header) SettingsBounds() (start, end int) {
	// Header padding of one column on the right.
	end = h.Width - 1
	return end - lipgloss.Width(SettingsLabel), end
}

// View renders the header as a single row.
func (h *Header) View(theme *styles.Theme) string {
	left := theme.HeaderBrand.Render(h.Title)
	right := theme.ShortcutKey.Render(SettingsLabel)

	if h.User != "" {
		room := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 8
		if room > 4 {
			left += "  " + theme.HeaderUser.Render(util.Truncate(h.User, room))
		}
	}

	gap := h.Width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	row := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return theme.Header.Width(h.Width).MaxWidth(h.Width).Render(row)
}
