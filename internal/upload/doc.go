// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload decides whether a document may be uploaded.
//
// The Gate is a pure precondition check run before the API client is
// involved: one file per upload, only at the start of a new chat, and only
// with an allowed extension. Rejections are api.Error values of kind
// Validation so callers handle them like any other failed operation.
//
// Inspect reports basic facts about a file (size, PDF page count) for
// display; it never rejects anything.
package upload
