// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the record types exchanged with the chat backend.
//
// Every record is explicitly typed and validated on receipt: a payload that
// does not conform (missing identifiers, malformed timestamps) is rejected
// instead of being passed through loosely typed.
//
// # Key Types
//
//   - User: the authenticated identity (id, display name, email)
//   - ChatSummary: one row of the chat history sidebar
//   - Chat: a chat with its ordered message thread
//   - Message: one server-provided turn, read-only on the client
//   - UploadResult: the backend's answer to a document upload
//   - Timestamp: lenient ISO-8601 time used by all records
//
// # Usage
//
//	var chats []model.ChatSummary
//	if err := json.Unmarshal(body, &chats); err != nil { ... }
//	if err := model.ValidateSummaries(chats); err != nil { ... }
package model
