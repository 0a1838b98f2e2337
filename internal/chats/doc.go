// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chats implements the chat view controller.
//
// A Controller owns which chat is selected, whether the view is in new-chat
// context, and the single pending mutating operation. It orchestrates list
// and detail fetches and every mutation (upload, rename, delete, archive,
// bulk delete, bulk archive, account deletion) against the backend.
//
// # Policies
//
//   - The history list is re-fetched after every successful mutation; it is
//     never patched optimistically.
//   - At most one mutating operation is pending. A second one fails with
//     ErrBusy without any network call.
//   - Destructive operations ask a Confirmer first; a declined confirmation
//     is a silent no-op.
//   - Failures are reported through the Notifier and leave state unchanged.
//     Unauthorized failures also end the session.
package chats
