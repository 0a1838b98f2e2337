// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatwithdata-tui/internal/chats"
	"github.com/jeranaias/chatwithdata-tui/internal/model"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func summaries(ids ...string) []model.ChatSummary {
	out := make([]model.ChatSummary, len(ids))
	for i, id := range ids {
		out[i] = model.ChatSummary{ID: id, Title: "Chat " + id, LastMessage: "last\nmessage " + id}
	}
	return out
}

func TestSidebar_Empty(t *testing.T) {
	s := NewSidebar()
	assert.Contains(t, s.View(testTheme(), 30, 10, now), "Loading...")

	s.SetChats(nil)
	out := s.View(testTheme(), 30, 10, now)
	assert.Contains(t, out, SidebarEmptyText)
	assert.Contains(t, out, "New chat")

	id, isNew := s.Current()
	assert.True(t, isNew)
	assert.Empty(t, id)
}

func TestSidebar_Cursor(t *testing.T) {
	s := NewSidebar()
	s.SetChats(summaries("a", "b", "c"))

	s.CursorDown()
	id, isNew := s.Current()
	assert.False(t, isNew)
	assert.Equal(t, "a", id)

	s.CursorBottom()
	s.CursorDown()
	id, _ = s.Current()
	assert.Equal(t, "c", id, "stops at the last chat")

	s.CursorTop()
	s.CursorUp()
	_, isNew = s.Current()
	assert.True(t, isNew)
}

func TestSidebar_SetChatsKeepsCursorChat(t *testing.T) {
	s := NewSidebar()
	s.SetChats(summaries("a", "b", "c"))
	s.CursorDown()
	s.CursorDown()

	s.SetChats(summaries("z", "b"))
	c, ok := s.CurrentChat()
	require.True(t, ok)
	assert.Equal(t, "b", c.ID)

	s.SetChats(summaries("z"))
	_, isNew := s.Current()
	assert.True(t, isNew, "cursor resets when its chat disappears")
}

func TestSidebar_View(t *testing.T) {
	s := NewSidebar()
	s.SetChats(summaries("a", "b"))
	s.SetSelected("a")
	s.SetPending(chats.OpDelete("b"))

	out := s.View(testTheme(), 36, 12, now)
	assert.Contains(t, out, "Chat a")
	assert.Contains(t, out, "last message a", "previews are a single line")
	assert.Contains(t, out, "[..]", "pending marker on the target row")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(stripANSI(line))), 36)
	}
}

func TestSidebar_Scrolls(t *testing.T) {
	ids := make([]string, 20)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	s := NewSidebar()
	s.SetChats(summaries(ids...))
	s.CursorBottom()

	out := s.View(testTheme(), 30, 10, now)
	assert.Contains(t, out, "Chat t")
	assert.NotContains(t, out, "Chat a")
}
