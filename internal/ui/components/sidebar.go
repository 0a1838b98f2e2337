// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatwithdata-tui/internal/chats"
	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
	"github.com/jeranaias/chatwithdata-tui/internal/util"
)

// =============================================================================
// SIDEBAR
// =============================================================================

// SidebarEmptyText is shown when the user has no chats.
const SidebarEmptyText = "No chats yet."

// Rows taken by the "New chat" entry and the gap below it.
const sidebarHeaderRows = 2

// Rows per chat entry: title and preview.
const sidebarRowsPerChat = 2

// Sidebar lists the chat history. Row 0 is the "New chat" entry; row i+1
// is chat i. The cursor moves independently of the selected chat.
type Sidebar struct {
	chats    []model.ChatSummary
	cursor   int
	offset   int
	selected string
	pending  chats.Operation
	loading  bool
	Focused  bool
}

// NewSidebar creates an empty sidebar with the cursor on "New chat".
func NewSidebar() *Sidebar {
	return &Sidebar{loading: true}
}

// SetChats replaces the list, keeping the cursor on the same chat when it
// is still present.
func (s *Sidebar) SetChats(list []model.ChatSummary) {
	current, _ := s.Current()
	s.chats = list
	s.loading = false

	s.cursor = 0
	if current != "" {
		for i, c := range list {
			if c.ID == current {
				s.cursor = i + 1
				break
			}
		}
	}
	s.clampOffset(0)
}

// Chats returns the listed chats.
func (s *Sidebar) Chats() []model.ChatSummary { return s.chats }

// SetLoading marks the list as being fetched.
func (s *Sidebar) SetLoading(loading bool) { s.loading = loading }

// SetSelected highlights the displayed chat; "" means new-chat context.
func (s *Sidebar) SetSelected(id string) { s.selected = id }

// SetPending marks the pending operation so its target row can show it.
func (s *Sidebar) SetPending(op chats.Operation) { s.pending = op }

// CursorUp moves the cursor one row up.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the cursor one row down.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.chats) {
		s.cursor++
	}
}

// CursorTop moves the cursor to "New chat".
func (s *Sidebar) CursorTop() { s.cursor = 0 }

// CursorBottom moves the cursor to the last chat.
func (s *Sidebar) CursorBottom() { s.cursor = len(s.chats) }

// Current returns the chat under the cursor. isNew is true on the "New
// chat" row.
func (s *Sidebar) Current() (id string, isNew bool) {
	if s.cursor == 0 || s.cursor > len(s.chats) {
		return "", true
	}
	return s.chats[s.cursor-1].ID, false
}

// CurrentChat returns the summary under the cursor.
func (s *Sidebar) CurrentChat() (model.ChatSummary, bool) {
	if s.cursor == 0 || s.cursor > len(s.chats) {
		return model.ChatSummary{}, false
	}
	return s.chats[s.cursor-1], true
}

// capacity returns how many chats fit in height rows.
func capacity(height int) int {
	n := (height - sidebarHeaderRows) / sidebarRowsPerChat
	if n < 1 {
		return 1
	}
	return n
}

// clampOffset scrolls so the cursor row is visible.
func (s *Sidebar) clampOffset(height int) {
	if height <= 0 {
		s.offset = 0
		return
	}
	visible := capacity(height)
	idx := s.cursor - 1
	if idx < s.offset {
		s.offset = max(idx, 0)
	}
	if idx >= s.offset+visible {
		s.offset = idx - visible + 1
	}
}

// View renders the sidebar into width x height.
func (s *Sidebar) View(theme *styles.Theme, width, height int, now time.Time) string {
	if width <= 0 {
		return ""
	}
	s.clampOffset(height)

	// Border and padding on the right.
	inner := width - 2

	var b strings.Builder
	newChat := theme.SidebarNewChat.Render("+ New chat")
	switch {
	case s.cursor == 0:
		newChat = theme.SidebarItemCursor.Render(newChat)
	case s.selected == "":
		newChat = theme.SidebarItemSelected.Render(newChat)
	default:
		newChat = theme.SidebarItem.Render(newChat)
	}
	b.WriteString(newChat)
	b.WriteString("\n\n")

	switch {
	case s.loading && len(s.chats) == 0:
		b.WriteString(theme.SidebarEmpty.Render("Loading..."))
	case len(s.chats) == 0:
		b.WriteString(theme.SidebarEmpty.Render(SidebarEmptyText))
	default:
		end := min(s.offset+capacity(height), len(s.chats))
		for i := s.offset; i < end; i++ {
			b.WriteString(s.renderChat(theme, i, inner-2, now))
			if i < end-1 {
				b.WriteString("\n")
			}
		}
	}

	style := theme.Sidebar
	if s.Focused {
		style = theme.SidebarFocused
	}
	return style.Width(width - 1).Height(height).MaxHeight(height).Render(b.String())
}

func (s *Sidebar) renderChat(theme *styles.Theme, i, width int, now time.Time) string {
	c := s.chats[i]

	when := c.Timestamp.Display(now)
	marker := ""
	if s.pending.Targets(c.ID) {
		marker = styles.StatusIndicators.Pending + " "
	}

	titleWidth := width - util.StringWidth(when) - util.StringWidth(marker) - 1
	title := util.PadRight(util.Truncate(c.DisplayTitle(), titleWidth), titleWidth)
	line1 := theme.StatusBusy.Render(marker) + theme.SidebarTitle.Render(title) + " " + theme.SidebarPreview.Render(when)
	line2 := theme.SidebarPreview.Render(util.Truncate(util.SingleLine(c.LastMessage), width))

	row := lipgloss.JoinVertical(lipgloss.Left, line1, line2)
	switch {
	case s.cursor == i+1:
		return theme.SidebarItemCursor.Render(row)
	case s.selected == c.ID:
		return theme.SidebarItemSelected.Render(row)
	default:
		return theme.SidebarItem.Render(row)
	}
}
