// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for the chatwithdata CLI.
//
// Prompts and the TUI need a terminal on stdin. Styled output needs one on
// stdout unless FORCE_COLOR is set; NO_COLOR and CLICOLOR=0 always win.

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is used when stdout is not a terminal.
	DefaultTerminalWidth = 80

	// MinTerminalWidth keeps tables readable on very narrow terminals.
	MinTerminalWidth = 40
)

// IsTTY reports whether stdin is a terminal, i.e. whether prompts can be
// answered.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetTerminalWidth returns the width of stdout, clamped to
// MinTerminalWidth, or DefaultTerminalWidth when it cannot be measured.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return max(width, MinTerminalWidth)
}

// colorProfile is resolved once per process; the environment does not
// change under a running command.
var colorProfile = sync.OnceValue(func() termenv.Profile {
	switch {
	case termenv.EnvNoColor():
		return termenv.Ascii
	case os.Getenv("FORCE_COLOR") != "":
		if p := termenv.EnvColorProfile(); p != termenv.Ascii {
			return p
		}
		return termenv.ANSI256
	case !IsStdoutTTY():
		return termenv.Ascii
	default:
		return termenv.EnvColorProfile()
	}
})

// ColorsEnabled reports whether styled output should be used.
// See https://no-color.org/ for NO_COLOR.
func ColorsEnabled() bool {
	return colorProfile() != termenv.Ascii
}

// GetColorProfile returns the termenv profile for command output.
func GetColorProfile() termenv.Profile {
	return colorProfile()
}
