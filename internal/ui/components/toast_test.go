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
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *fakeClock                   { return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)} }

func TestToastManager_AddNewestFirst(t *testing.T) {
	m := NewToastManager()
	m.Add(ToastKindSuccess, "first")
	m.Add(ToastKindError, "second")

	toasts := m.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "second", toasts[0].Message)
	assert.Equal(t, ErrorToastDuration, toasts[0].Duration)
	assert.Equal(t, DefaultToastDuration, toasts[1].Duration)
}

func TestToastManager_DuplicateRestartsTimer(t *testing.T) {
	clock := newClock()
	m := NewToastManager()
	m.SetClock(clock.now)

	id := m.Add(ToastKindError, "Failed to load chats")
	clock.advance(5 * time.Second)
	assert.Equal(t, id, m.Add(ToastKindError, "Failed to load chats"))
	assert.Len(t, m.Toasts(), 1)

	clock.advance(5 * time.Second)
	assert.True(t, m.Tick(), "timer restarted by the repeat")
}

func TestToastManager_Expiry(t *testing.T) {
	clock := newClock()
	m := NewToastManager()
	m.SetClock(clock.now)

	m.Add(ToastKindSuccess, "ok")
	m.Add(ToastKindError, "bad")

	clock.advance(DefaultToastDuration)
	assert.True(t, m.Tick())
	assert.False(t, m.Contains("ok"))
	assert.True(t, m.Contains("bad"))

	clock.advance(ErrorToastDuration)
	assert.False(t, m.Tick())
	assert.False(t, m.HasToasts())
}

func TestToastManager_Cap(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < MaxToasts+3; i++ {
		m.Add(ToastKindStatus, strings.Repeat("x", i+1))
	}
	assert.Len(t, m.Toasts(), MaxToasts)
}

func TestToastManager_Dismiss(t *testing.T) {
	m := NewToastManager()
	a := m.Add(ToastKindStatus, "a")
	m.Add(ToastKindStatus, "b")

	m.Dismiss(a)
	assert.False(t, m.Contains("a"))

	m.DismissNewest()
	assert.False(t, m.HasToasts())

	m.Add(ToastKindStatus, "c")
	m.Clear()
	assert.Empty(t, m.Toasts())
}

func TestToastManager_Notify(t *testing.T) {
	m := NewToastManager()
	var n chats.Notifier = m
	n.Notify(chats.LevelWarning, chats.MsgEmptyTitle)

	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastKindWarning, toasts[0].Kind)
}

func TestKindForLevel(t *testing.T) {
	assert.Equal(t, ToastKindSuccess, KindForLevel(chats.LevelSuccess))
	assert.Equal(t, ToastKindWarning, KindForLevel(chats.LevelWarning))
	assert.Equal(t, ToastKindError, KindForLevel(chats.LevelError))
}

func TestRenderToastStack(t *testing.T) {
	clock := newClock()
	m := NewToastManager()
	m.SetClock(clock.now)
	m.Add(ToastKindSuccess, "File uploaded successfully")
	m.Add(ToastKindError, "Failed to delete chat")

	out := RenderToastStack(m.Toasts(), 100, clock.now())
	assert.Contains(t, out, "[OK]")
	assert.Contains(t, out, "[X]")
	assert.Contains(t, out, "8s")
	assert.Less(t, strings.Index(out, "uploaded"), strings.Index(out, "delete"), "newest at the bottom")

	assert.Empty(t, RenderToastStack(nil, 100, clock.now()))
}

func TestWrapToastText(t *testing.T) {
	wrapped := wrapToastText("one two three four five six", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 10)
	}
	assert.Equal(t, "short", wrapToastText("short", 10))
}
