// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chats to files for reading or archiving outside
// the client.
//
// # Key Types
//
//   - Exporter: converts one chat to bytes in a given format
//   - Options: output location and what metadata to include
//
// # Supported Formats
//
//   - Markdown: human-readable, with YAML frontmatter
//   - JSON: the chat as the backend describes it
//
// # Usage
//
//	exp, err := export.ForFormat("markdown", nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(chat, exp, nil)
package export
