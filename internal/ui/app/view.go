// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/chatwithdata-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen with its overlays.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var screen string
	if m.screen == ScreenHome {
		screen = m.homeView()
	} else {
		screen = m.authView()
	}

	if m.dropdown.IsOpen() {
		x, y, _, _ := m.dropdown.Bounds()
		screen = placeOverlay(screen, m.dropdown.View(m.theme), x, y)
	}

	if m.toasts.HasToasts() {
		stack := components.RenderToastStack(m.toasts.Toasts(), m.width, m.now())
		x := m.width - lipgloss.Width(stack) - 1
		y := m.height - lipgloss.Height(stack) - 1
		screen = placeOverlay(screen, stack, x, y)
	}

	switch {
	case m.confirm != nil:
		screen = placeCentered(screen, m.confirm.View(m.theme), m.width, m.height)
	case m.renaming:
		box := m.theme.DialogBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.theme.DialogText.Render("Rename chat"),
			m.renameInput.View(),
			m.theme.FormHint.Render("enter to save, esc to cancel"),
		))
		screen = placeCentered(screen, box, m.width, m.height)
	}

	return screen
}

// authView renders the login, signup or reset form centered on screen.
func (m Model) authView() string {
	var links []string
	help := func(k string, desc string) string { return k + "  " + desc }

	switch m.screen {
	case ScreenLogin:
		links = append(links,
			help(m.formKeys.Signup.Help().Key, "Create account"),
			help(m.formKeys.Reset.Help().Key, "Forgot password"),
		)
		if m.cfg.Auth.DemoLogin {
			links = append(links, help(m.formKeys.Demo.Help().Key, "Demo login"))
		}
	case ScreenSignup:
		links = append(links, help(m.formKeys.Login.Help().Key, "Already have an account? Sign in"))
	case ScreenReset:
		links = append(links,
			help(m.formKeys.Token.Help().Key, "Have a reset token?"),
			help(m.formKeys.Back.Help().Key, "Back to sign in"),
		)
	case ScreenNewPassword:
		links = append(links, help(m.formKeys.Back.Help().Key, "Back to sign in"))
	}

	brand := m.theme.HeaderBrand.Render("chatwithdata")
	body := lipgloss.JoinVertical(lipgloss.Center, brand, "", m.form.View(m.theme, m.spinner.View(), links...))
	return m.theme.App.Render(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body))
}

// homeView renders header, sidebar, main pane and status bar.
func (m Model) homeView() string {
	mainW, bodyH := m.mainSize()
	sideW := m.theme.SidebarWidth()
	now := m.now()

	var main string
	if m.ctrl.NewChatContext() {
		main = lipgloss.Place(mainW, bodyH, lipgloss.Center, lipgloss.Center,
			m.dropzone.View(m.theme, min(mainW-4, 72), m.spinner.View()))
	} else {
		main = m.thread.View()
	}
	main = lipgloss.NewStyle().Width(mainW).Height(bodyH).MaxHeight(bodyH).PaddingLeft(1).Render(main)

	var body string
	switch {
	case sideW > 0:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(m.theme, sideW, bodyH, now), main)
	case m.focus == FocusSidebar:
		// Narrow terminals show one pane at a time.
		body = m.sidebar.View(m.theme, m.width, bodyH, now)
	default:
		body = main
	}

	m.status.Pending = m.ctrl.Pending()
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(m.theme), body, m.status.View(m.theme))
}

// =============================================================================
// OVERLAYS
// =============================================================================

// placeOverlay draws overlay over base with its top-left corner at x, y.
// Base content left and right of the overlay is preserved.
func placeOverlay(base, overlay string, x, y int) string {
	if overlay == "" {
		return base
	}
	x, y = max(x, 0), max(y, 0)

	lines := strings.Split(base, "\n")
	for i, ol := range strings.Split(overlay, "\n") {
		row := y + i
		if row >= len(lines) {
			break
		}
		line := lines[row]

		left := ansi.Truncate(line, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(ol), "")
		lines[row] = left + ol + right
	}
	return strings.Join(lines, "\n")
}

// placeCentered draws overlay in the middle of a width x height screen.
func placeCentered(base, overlay string, width, height int) string {
	x := (width - lipgloss.Width(overlay)) / 2
	y := (height - lipgloss.Height(overlay)) / 2
	return placeOverlay(base, overlay, x, y)
}
