// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable client-side credential persistence.
//
// The client keeps a single key: the bearer token issued by the backend.
// Absence of the key means the user is not signed in.
//
// # Key Types
//
//   - CredentialStore: interface read by the API client and written by the session
//   - FileStore: JSON file under ~/.chatwithdata/, written atomically with mode 0600
//   - MemoryStore: in-process store for tests and ephemeral sessions
//   - Watcher: fsnotify watch on the credential file for cross-process changes
//
// # Usage
//
//	store := storage.NewFileStore(path)
//	token, ok := store.Token()
//	err := store.Save("token")
//	err = store.Clear()
//
// # Storage Location
//
// Credentials are stored in ~/.chatwithdata/credentials unless configured
// otherwise.
package storage
