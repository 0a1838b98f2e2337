// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// glamourStyle picks a glamour style for the configured theme.
func glamourStyle(theme string) string {
	if !ColorsEnabled() {
		return "notty"
	}
	switch theme {
	case "light":
		return "light"
	case "dark":
		return "dark"
	default:
		return "auto"
	}
}

// renderMarkdown renders assistant content for the terminal. Content that
// fails to render is returned unchanged.
func renderMarkdown(content, theme string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style := glamourStyle(theme); style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
