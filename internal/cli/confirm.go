// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Unified confirmation handling for destructive commands.
//
// USABILITY: TTY detection for proper terminal handling
//
// Every destructive command follows a single pattern:
//  1. If --confirm flag is present, proceed without prompting
//  2. If --json mode, require --confirm flag (no interactive prompts in JSON mode)
//  3. If stdin is not a TTY, require --confirm flag (can't prompt)
//  4. Otherwise, show interactive prompt for confirmation

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConfirmationOptions describes how a confirmation may be obtained.
type ConfirmationOptions struct {
	// ConfirmFlag indicates if --confirm flag was passed (skip interactive prompt)
	ConfirmFlag bool
	// JSONMode indicates if --json flag was passed (requires ConfirmFlag)
	JSONMode bool
	// Interactive indicates that stdin is a terminal
	Interactive bool
}

// RequireConfirmation asks question (a full sentence ending in "?") and
// reports whether the user agreed.
//
// Returns an error when confirmation is required but cannot be obtained,
// so scripts fail loudly instead of silently skipping the action.
//
// Example:
//
//	confirmed, err := RequireConfirmation(p, "Are you sure you want to delete all chats?", opts)
//	if err != nil {
//	    return err  // JSON mode or piped stdin without --confirm
//	}
//	if !confirmed {
//	    ShowCancellationMessage(w)
//	    return nil
//	}
func RequireConfirmation(p Prompter, question string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}

	if opts.JSONMode {
		return false, &ValidationError{
			Field:  "confirm",
			Reason: "confirmation required: use --confirm flag for destructive actions in JSON mode",
		}
	}

	// USABILITY: TTY detection for proper terminal handling
	if !opts.Interactive || p == nil {
		return false, &ValidationError{
			Field:  "confirm",
			Reason: "confirmation required but stdin is not a terminal; use --confirm flag",
		}
	}

	answer, err := p.Prompt(fmt.Sprintf("%s [y/N]: ", question))
	if err != nil {
		if errors.Is(err, ErrPromptCancelled) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(answer))
	return response == "y" || response == "yes", nil
}

// ShowCancellationMessage displays a standard cancellation message.
func ShowCancellationMessage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, DimStyle.Render("Cancelled."))
	fmt.Fprintln(w)
}
