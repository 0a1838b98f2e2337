// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
)

func TestCheck_ExtensionsAnyCase(t *testing.T) {
	gate := NewGate()
	for _, ext := range AllowedExtensions {
		for _, variant := range []string{ext, strings.ToUpper(ext), strings.ToUpper(ext[:2]) + ext[2:]} {
			sel, err := gate.Check(true, []string{"/tmp/report" + variant})
			require.NoError(t, err, variant)
			assert.Equal(t, ext, sel.Ext)
			assert.Equal(t, "report"+variant, sel.Name)
			assert.Zero(t, sel.Dropped)
		}
	}
}

func TestCheck_RejectsOtherExtensions(t *testing.T) {
	gate := NewGate()
	for _, name := range []string{"archive.zip", "virus.exe", "README", "notes.", "notes.md.zip", "slides.ppt", "doc.doc", "image.PNG"} {
		_, err := gate.Check(true, []string{name})
		require.Error(t, err, name)
		assert.ErrorIs(t, err, api.ErrValidation)
		assert.Equal(t, MsgInvalidType, api.MessageOf(err, ""))
	}
}

func TestCheck_OutsideNewChatRejectedRegardlessOfFile(t *testing.T) {
	gate := NewGate()
	for _, name := range []string{"notes.md", "paper.PDF", "archive.zip"} {
		_, err := gate.Check(false, []string{name})
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrValidation)
		assert.Equal(t, MsgNotNewChat, api.MessageOf(err, ""))
	}
}

func TestCheck_FirstFileOnly(t *testing.T) {
	gate := NewGate()
	sel, err := gate.Check(true, []string{"a.txt", "b.exe", "c.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "a.txt", sel.Name)
	assert.Equal(t, 2, sel.Dropped)

	// A bad first file is rejected even when later files are valid.
	_, err = gate.Check(true, []string{"a.exe", "b.txt"})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestCheck_Empty(t *testing.T) {
	gate := NewGate()
	_, err := gate.Check(true, nil)
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, MsgNoFile, api.MessageOf(err, ""))

	_, err = gate.Check(true, []string{"  "})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestExtension(t *testing.T) {
	ext, ok := Extension("Report.Final.DOCX")
	assert.True(t, ok)
	assert.Equal(t, ".docx", ext)

	_, ok = Extension("Makefile")
	assert.False(t, ok)

	assert.True(t, NewGate().Allowed("/some/dir/notes.MD"))
	assert.False(t, NewGate().Allowed("/some/dir.md/notes"))
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0600))
	info, err := Inspect(txt)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", info.Name)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, ".txt", info.Ext)
	assert.Zero(t, info.Pages)

	// Not a real PDF: reported with zero pages, not rejected.
	bad := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("%PDF-1.4 garbage"), 0600))
	info, err = Inspect(bad)
	require.NoError(t, err)
	assert.Zero(t, info.Pages)

	_, err = Inspect(filepath.Join(dir, "missing.md"))
	assert.Error(t, err)

	_, err = Inspect(dir)
	assert.Error(t, err)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", HumanSize(512))
	assert.Equal(t, "1.5 KB", HumanSize(1536))
	assert.Equal(t, "2.0 MB", HumanSize(2*1024*1024))
}
