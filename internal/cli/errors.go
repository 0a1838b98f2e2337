// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for all CLI commands in chatwithdata.
//
// Handlers always return errors and never print them; the caller decides
// how to display them and which exit code to use.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
	"github.com/jeranaias/chatwithdata-tui/internal/chats"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid usage or rejected input
	ExitUsageError = 2
	// ExitAuthError indicates a missing or rejected credential
	ExitAuthError = 3
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 4
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitServerError indicates the backend failed the request
	ExitServerError = 6
)

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "chats", "config")
	Action  string // Action being performed (e.g., "show", "delete")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// ErrUnknownSubcommand creates an error for an unrecognised command or
// subcommand, suggesting the closest valid one.
func ErrUnknownSubcommand(command, sub, usage string) error {
	reason := "unknown subcommand"
	candidates, ok := subcommands[command]
	if !ok {
		reason = "unknown command"
		candidates = validCommands
	}
	if s := suggest(sub, candidates); s != "" {
		reason += fmt.Sprintf(", did you mean %q?", s)
	}
	return &ValidationError{
		Field:   command,
		Value:   sub,
		Reason:  reason,
		Example: usage,
	}
}

// =============================================================================
// ERROR DISPLAY HELPERS
// =============================================================================

// DisplayError writes err to w in a consistent format.
//
// In JSON mode, outputs structured JSON error.
// In normal mode, displays formatted error message.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}

	if jsonMode {
		DisplayErrorJSON(w, err)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), userMessage(err))
	fmt.Fprintln(w)
}

// DisplayErrorJSON outputs an error as JSON.
func DisplayErrorJSON(w io.Writer, err error) {
	output := map[string]interface{}{
		"error":   err.Error(),
		"success": false,
	}

	var apiErr *api.Error
	var cmdErr *CommandError
	var valErr *ValidationError
	switch {
	case errors.As(err, &apiErr):
		output["error_type"] = apiErr.Kind.String()
		output["message"] = apiErr.UserMessage()
		if apiErr.Status != 0 {
			output["status"] = apiErr.Status
		}
	case errors.As(err, &valErr):
		output["error_type"] = "validation_error"
		output["field"] = valErr.Field
		output["value"] = valErr.Value
		output["reason"] = valErr.Reason
		if valErr.Example != "" {
			output["example"] = valErr.Example
		}
	case errors.As(err, &cmdErr):
		output["error_type"] = "command_error"
		output["command"] = cmdErr.Command
		output["action"] = cmdErr.Action
		output["reason"] = cmdErr.Reason
	default:
		output["error_type"] = "generic_error"
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output)
}

// userMessage prefers the backend's wording for API failures.
func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Kind == api.KindNetworkUnavailable && apiErr.Err != nil {
			return fmt.Sprintf("%s (%v)", apiErr.UserMessage(), apiErr.Err)
		}
		return apiErr.UserMessage()
	}
	if errors.Is(err, chats.ErrBusy) {
		return "Another operation is still running"
	}
	return err.Error()
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// HandleErrorAndExit displays err and exits with its exit code. JSON
// errors go to stdout with the rest of the JSON output.
func HandleErrorAndExit(err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayError(os.Stdout, err, true)
	} else {
		DisplayError(os.Stderr, err, false)
	}
	os.Exit(GetExitCode(err))
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch api.KindOf(err) {
	case api.KindValidation:
		return ExitUsageError
	case api.KindUnauthorized:
		return ExitAuthError
	case api.KindNotFound:
		return ExitNotFoundError
	case api.KindNetworkUnavailable:
		return ExitNetworkError
	case api.KindServerFailure:
		return ExitServerError
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsageError
	}

	return ExitGeneralError
}
