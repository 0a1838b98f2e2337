// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTheme_Modes(t *testing.T) {
	assert.True(t, NewTheme(ModeDark).IsDark)
	assert.False(t, NewTheme(ModeLight).IsDark)
	assert.True(t, NewTheme("DARK").IsDark)
	assert.NotNil(t, NewTheme(ModeAuto))
}

func TestTheme_Toggle(t *testing.T) {
	theme := NewTheme(ModeDark)
	assert.Equal(t, ModeDark, theme.Mode())

	theme.Toggle()
	assert.False(t, theme.IsDark)
	assert.Equal(t, ModeLight, theme.Mode())

	theme.Toggle()
	assert.True(t, theme.IsDark)
}

func TestTheme_StylesRender(t *testing.T) {
	theme := NewTheme(ModeDark)
	for name, rendered := range map[string]string{
		"FormBox":         theme.FormBox.Render("x"),
		"UserBubble":      theme.UserBubble.Render("x"),
		"AssistantBubble": theme.AssistantBubble.Render("x"),
		"DropZone":        theme.DropZone.Render("x"),
		"DialogBox":       theme.DialogBox.Render("x"),
		"Dropdown":        theme.Dropdown.Render("x"),
	} {
		assert.Contains(t, rendered, "x", name)
	}
}

func TestTheme_Layout(t *testing.T) {
	theme := NewTheme(ModeDark)

	theme.SetSize(50, 20)
	assert.Equal(t, LayoutNarrow, theme.GetLayoutMode())
	assert.Zero(t, theme.SidebarWidth())

	theme.SetSize(80, 20)
	assert.Equal(t, LayoutMedium, theme.GetLayoutMode())
	assert.Equal(t, 28, theme.SidebarWidth())

	theme.SetSize(140, 40)
	assert.Equal(t, LayoutWide, theme.GetLayoutMode())
}

func TestStatusRendering(t *testing.T) {
	assert.Contains(t, RenderSuccess("done"), "[OK] done")
	assert.Contains(t, RenderError("failed"), "[X] failed")
}

func TestSpinnerConfig(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, LineSpinner.Duration())
	assert.Equal(t, time.Second, SpinnerConfig{}.Duration())

	s := DotsSpinner.Spinner()
	assert.Equal(t, DotsSpinner.Frames, s.Frames)
	assert.Equal(t, DotsSpinner.Duration(), s.FPS)
}
