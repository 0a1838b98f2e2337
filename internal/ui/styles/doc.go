// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the chatwithdata TUI.

# Colors (colors.go)

Every color is a Lip Gloss AdaptiveColor with a light and a dark variant:

	Indigo  - brand, focus
	Purple  - assistant messages
	Cyan    - key hints
	Emerald - success
	Amber   - pending operations, confirmations
	Rose    - errors, destructive actions

Status is never shown by color alone; StatusIndicators prefix messages
with [OK], [X], [!] and [i].

# Theme (theme.go)

NewTheme takes the [ui] theme config value (dark, light or auto). Toggle
flips the mode at runtime by pinning the Lip Gloss renderer's background
flag and rebuilding every style, so adaptive colors resolve to the new
variant. GlamourStyle names the matching markdown style for assistant
answers.

# Layout

	LayoutNarrow  < 60 columns   sidebar hidden
	LayoutMedium  60-100 columns
	LayoutWide    > 100 columns
*/
package styles
