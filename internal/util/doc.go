// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the client packages.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writes (credential and config files)
//   - Truncate: display-width aware truncation for sidebar rows
//   - SingleLine: whitespace folding for one-line previews
//
// # Usage
//
//	row := util.Truncate(util.SingleLine(chat.LastMessage), 30)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
