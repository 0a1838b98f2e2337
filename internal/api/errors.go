// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// Kind classifies a failed operation.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindUnauthorized       Kind = "unauthorized"
	KindNotFound           Kind = "not_found"
	KindServerFailure      Kind = "server_failure"
	KindNetworkUnavailable Kind = "network_unavailable"
)

// String returns the kind identifier.
func (k Kind) String() string {
	return string(k)
}

// Sentinel errors for errors.Is checks. They match any *Error of the same kind.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrServerFailure      = &Error{Kind: KindServerFailure}
	ErrNetworkUnavailable = &Error{Kind: KindNetworkUnavailable}
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error is returned by every failed client operation, and by local
// validation performed before a request would be issued.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 when no response was received
	Message string // human-readable detail from the backend, if any
	Op      string // operation name, e.g. "login"
	Err     error  // underlying cause for transport and decode failures
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Status == 0 && t.Message == "" && t.Op == "" && t.Err == nil
}

// UserMessage returns text suitable for a notification.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindValidation:
		return "The request was rejected"
	case KindUnauthorized:
		return "Your session has expired. Please sign in again."
	case KindNotFound:
		return "That chat no longer exists"
	case KindNetworkUnavailable:
		return "Cannot reach the server"
	default:
		return "The server could not complete the request"
	}
}

// Validationf builds a local Validation error.
func Validationf(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// MessageOf returns the user-facing message of err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// =============================================================================
// STATUS MAPPING
// =============================================================================

// KindForStatus maps a non-2xx HTTP status to an error kind.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServerFailure
	}
}

// handleErrorResponse converts an error response into an *Error.
func handleErrorResponse(op string, status int, body []byte) *Error {
	return &Error{
		Kind:    KindForStatus(status),
		Status:  status,
		Message: extractMessage(body),
		Op:      op,
	}
}

// extractMessage pulls a human-readable message out of an error body.
// Recognised keys, in order: message, detail (string or list of
// {msg} objects), error (string or {message} object).
func extractMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if raw, ok := payload["message"]; ok {
		if s := rawString(raw); s != "" {
			return s
		}
	}

	if raw, ok := payload["detail"]; ok {
		if s := rawString(raw); s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(raw, &items) == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	if raw, ok := payload["error"]; ok {
		if s := rawString(raw); s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
			return strings.TrimSpace(nested.Message)
		}
	}

	return ""
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
