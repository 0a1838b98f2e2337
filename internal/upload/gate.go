// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"path/filepath"
	"strings"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
)

// AllowedExtensions lists accepted document types, lowercase with the dot.
var AllowedExtensions = []string{".txt", ".pptx", ".docx", ".md", ".pdf"}

// User-facing rejection messages.
const (
	MsgNoFile        = "No file selected"
	MsgNotNewChat    = "File upload is only allowed at the start of a new chat"
	MsgInvalidType   = "Invalid file type. Please upload .txt, .pptx, .docx, .md, or .pdf files."
	MsgOnlyFirstFile = "Only one file can be uploaded per chat; using the first file"
	SupportedFormats = "Supported formats: .txt, .pptx, .docx, .md, .pdf"
)

// Selection is an accepted upload.
type Selection struct {
	Path string
	Name string
	Ext  string // lowercase, with the dot

	// Dropped counts additional files that were ignored.
	Dropped int
}

// Gate validates uploads.
type Gate struct {
	allowed map[string]bool
}

// NewGate creates a gate for AllowedExtensions.
func NewGate() *Gate {
	allowed := make(map[string]bool, len(AllowedExtensions))
	for _, ext := range AllowedExtensions {
		allowed[ext] = true
	}
	return &Gate{allowed: allowed}
}

// Check validates an upload of paths while newChat reports whether the view
// is in new-chat context. Only the first path is considered; the rest are
// counted in Selection.Dropped. The context check runs before the extension
// check, so any upload outside a new chat is rejected regardless of the file.
func (g *Gate) Check(newChat bool, paths []string) (Selection, error) {
	if len(paths) == 0 || strings.TrimSpace(paths[0]) == "" {
		return Selection{}, api.Validationf("upload", MsgNoFile)
	}
	if !newChat {
		return Selection{}, api.Validationf("upload", MsgNotNewChat)
	}

	path := paths[0]
	name := filepath.Base(path)
	ext, ok := Extension(name)
	if !ok || !g.allowed[ext] {
		return Selection{}, api.Validationf("upload", MsgInvalidType)
	}

	return Selection{
		Path:    path,
		Name:    name,
		Ext:     ext,
		Dropped: len(paths) - 1,
	}, nil
}

// Allowed reports whether name has an accepted extension.
func (g *Gate) Allowed(name string) bool {
	ext, ok := Extension(filepath.Base(name))
	return ok && g.allowed[ext]
}

// Extension returns the lowercase substring from the last dot of name,
// including the dot. It reports false when name has no dot.
func Extension(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return "", false
	}
	return strings.ToLower(name[i:]), true
}
