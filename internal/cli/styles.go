// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Output styling for chatwithdata commands.
//
// Commands use the terminal UI's palette so both surfaces look alike.
// Colors are dropped for non-TTY output and when NO_COLOR is set.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatwithdata-tui/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// labelWidth is the default column for RenderLabel.
const labelWidth = 20

var (
	// TitleStyle heads a command's output.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Indigo).MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(labelWidth)
	ValueStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	DimStyle   = lipgloss.NewStyle().Foreground(styles.TextMuted)

	SuccessStyle = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(styles.Amber)

	// Message author labels, matching the thread bubbles in the TUI.
	UserStyle      = lipgloss.NewStyle().Foreground(styles.UserBubbleBorder).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)

	separatorStyle = lipgloss.NewStyle().Foreground(styles.Overlay)
)

// okMark prefixes success lines.
func okMark() string {
	return SuccessStyle.Render(styles.StatusIndicators.Success)
}

// RenderSeparator renders a horizontal rule, 50 cells unless a width is given.
func RenderSeparator(width ...int) string {
	w := 50
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return separatorStyle.Render(strings.Repeat("=", w))
}

// RenderLabel renders a label padded to a fixed column.
func RenderLabel(label string, width ...int) string {
	if len(width) > 0 && width[0] > 0 {
		return LabelStyle.Width(width[0]).Render(label)
	}
	return LabelStyle.Render(label)
}
