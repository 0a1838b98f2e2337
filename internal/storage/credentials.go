// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/chatwithdata-tui/internal/util"
)

// CredentialFileName is the default file name inside the data directory.
const CredentialFileName = "credentials"

// ErrEmptyToken is returned when saving an empty token.
var ErrEmptyToken = errors.New("storage: token is empty")

// =============================================================================
// CREDENTIAL STORE INTERFACE
// =============================================================================

// CredentialStore holds the bearer token for the current user.
type CredentialStore interface {
	// Token returns the stored token and whether one is present.
	Token() (string, bool)

	// Save persists the token, replacing any previous one.
	Save(token string) error

	// Clear removes the stored token. Clearing an absent token is not an error.
	Clear() error
}

// DefaultCredentialPath returns ~/.chatwithdata/credentials.
func DefaultCredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chatwithdata", CredentialFileName), nil
}

// =============================================================================
// FILE STORE
// =============================================================================

type credentialFile struct {
	Token string `json:"token"`
}

// FileStore persists the token in a JSON file.
type FileStore struct {
	path   string
	mu     sync.Mutex
	remove func(string) error

	// revoked is set when Clear could not delete the file. The token on
	// disk is ignored by this process until the next Save.
	revoked bool
}

// NewFileStore creates a store backed by the file at path. The file and its
// directory are created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, remove: os.Remove}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Token reads the token from disk. A missing, unreadable or malformed file
// reads as no token.
func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revoked {
		return "", false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var cf credentialFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return "", false
	}
	token := strings.TrimSpace(cf.Token)
	return token, token != ""
}

// Save writes the token atomically with owner-only permissions.
func (s *FileStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	data, err := json.MarshalIndent(credentialFile{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	s.revoked = false
	return nil
}

// Clear deletes the credential file. When the file cannot be deleted its
// token is blanked in place so a later start does not restore the session;
// Clear only fails when neither works, and even then Token reports no
// token for the rest of this process.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.remove(s.path)
	if err == nil || os.IsNotExist(err) {
		s.revoked = false
		return nil
	}
	s.revoked = true

	blank, _ := json.Marshal(credentialFile{})
	if werr := os.WriteFile(s.path, blank, 0600); werr != nil {
		return fmt.Errorf("remove credentials: %w", errors.Join(err, werr))
	}
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps the token in memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates a memory store, optionally pre-seeded with a token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: strings.TrimSpace(token)}
}

// Token implements CredentialStore.
func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Save implements CredentialStore.
func (s *MemoryStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear implements CredentialStore.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
