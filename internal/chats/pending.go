// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chats

import (
	"errors"
	"strings"
)

// ErrBusy is returned when a mutating operation is attempted while another
// one is pending.
var ErrBusy = errors.New("another operation is in progress")

// Operation marks the pending mutating operation.
type Operation string

// Bulk and account-level operations.
const (
	OpNone          Operation = ""
	OpDeleteAll     Operation = "delete-all"
	OpDeleteAccount Operation = "delete-account"
	OpArchiveAll    Operation = "archive-all"
	OpUpload        Operation = "upload"
)

// OpEdit marks a rename of chat id.
func OpEdit(id string) Operation { return Operation("edit-" + id) }

// OpDelete marks a deletion of chat id.
func OpDelete(id string) Operation { return Operation("delete-" + id) }

// OpArchive marks an archive of chat id.
func OpArchive(id string) Operation { return Operation("archive-" + id) }

// Idle reports whether no operation is pending.
func (o Operation) Idle() bool { return o == OpNone }

// Targets reports whether o is a per-chat operation on id.
func (o Operation) Targets(id string) bool {
	if id == "" {
		return false
	}
	s := string(o)
	for _, prefix := range []string{"edit-", "delete-", "archive-"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok && rest == id {
			return true
		}
	}
	return false
}

// String returns the marker, or "none".
func (o Operation) String() string {
	if o == OpNone {
		return "none"
	}
	return string(o)
}
