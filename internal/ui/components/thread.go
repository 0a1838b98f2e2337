// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
)

// =============================================================================
// THREAD VIEW
// =============================================================================

// Empty-state texts of the thread pane.
const (
	ThreadEmptyText    = "Select a chat or start a new one"
	ThreadNoMessages   = "No messages yet."
	ThreadLoadingText  = "Loading chat..."
	bubbleMaxWidthPct  = 80
	minMarkdownWrapCol = 20
)

// Thread shows the messages of the selected chat, oldest first, in a
// scrollable viewport. Assistant answers are rendered as markdown.
type Thread struct {
	viewport viewport.Model
	chat     *model.Chat
	loading  bool

	width, height int

	// glamour renderers are costly to build; keep one per style and width.
	renderer      *glamour.TermRenderer
	rendererStyle string
	rendererWidth int
}

// NewThread creates an empty thread view.
func NewThread() *Thread {
	return &Thread{viewport: viewport.New(0, 0)}
}

// SetSize resizes the viewport.
func (t *Thread) SetSize(width, height int) {
	t.width, t.height = width, height
	t.viewport.Width = width
	t.viewport.Height = height
}

// SetChat shows chat, scrolled to the newest message.
func (t *Thread) SetChat(chat model.Chat) {
	t.chat = &chat
	t.loading = false
}

// SetLoading shows the loading placeholder until SetChat or Clear.
func (t *Thread) SetLoading() {
	t.chat = nil
	t.loading = true
}

// Clear returns to the empty state.
func (t *Thread) Clear() {
	t.chat = nil
	t.loading = false
}

// Chat returns the displayed chat.
func (t *Thread) Chat() (model.Chat, bool) {
	if t.chat == nil {
		return model.Chat{}, false
	}
	return *t.chat, true
}

// Render rebuilds the content for theme. Call after SetChat, resize or a
// theme change.
func (t *Thread) Render(theme *styles.Theme, now time.Time) {
	t.viewport.SetContent(t.content(theme, now))
	t.viewport.GotoBottom()
}

// Update handles scrolling keys and mouse wheel events.
func (t *Thread) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

// AtBottom reports whether the newest message is visible.
func (t *Thread) AtBottom() bool { return t.viewport.AtBottom() }

// View renders the viewport.
func (t *Thread) View() string { return t.viewport.View() }

func (t *Thread) content(theme *styles.Theme, now time.Time) string {
	center := func(s string) string {
		return lipgloss.Place(t.width, t.height, lipgloss.Center, lipgloss.Center, theme.ThreadEmpty.Render(s))
	}

	if t.loading {
		return center(ThreadLoadingText)
	}
	if t.chat == nil {
		return center(ThreadEmptyText)
	}

	var b strings.Builder
	b.WriteString(theme.ThreadTitle.Render(t.chat.DisplayTitle()))
	b.WriteString("\n")

	if len(t.chat.Messages) == 0 {
		b.WriteString(theme.ThreadEmpty.Render(ThreadNoMessages))
		return b.String()
	}

	bubbleWidth := max(t.width*bubbleMaxWidthPct/100, minMarkdownWrapCol+4)
	for _, m := range t.chat.Messages {
		b.WriteString(t.renderMessage(theme, m, bubbleWidth, now))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Thread) renderMessage(theme *styles.Theme, m model.Message, width int, now time.Time) string {
	meta := m.Author().String()
	if when := m.Timestamp.Display(now); when != "" {
		meta += "  " + when
	}

	if m.IsUser {
		bubble := theme.UserBubble.MaxWidth(width).Render(wrapText(m.Content, width-4))
		block := lipgloss.JoinVertical(lipgloss.Right, theme.BubbleMeta.Render(meta), bubble)
		return lipgloss.PlaceHorizontal(t.width, lipgloss.Right, block)
	}

	body := t.markdown(theme, m.Content, width-4)
	bubble := theme.AssistantBubble.MaxWidth(width).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, theme.BubbleMeta.Render(meta), bubble)
}

// markdown renders content with glamour, falling back to wrapped plain
// text when rendering fails.
func (t *Thread) markdown(theme *styles.Theme, content string, width int) string {
	width = max(width, minMarkdownWrapCol)
	style := theme.GlamourStyle()

	if t.renderer == nil || t.rendererStyle != style || t.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return wrapText(content, width)
		}
		t.renderer, t.rendererStyle, t.rendererWidth = r, style, width
	}

	out, err := t.renderer.Render(content)
	if err != nil {
		return wrapText(content, width)
	}
	return strings.Trim(out, "\n")
}

// wrapText wraps each paragraph of s to width columns.
func wrapText(s string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 1)).Render(s)
}
