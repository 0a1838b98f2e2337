// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/chatwithdata-tui/internal/upload"
)

func TestParsePaths(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/tmp/a.pdf", []string{"/tmp/a.pdf"}},
		{"  '/tmp/My Report.docx'  ", []string{"/tmp/My Report.docx"}},
		{`"/tmp/a b.md" /tmp/c.txt`, []string{"/tmp/a b.md", "/tmp/c.txt"}},
		{`/tmp/My\ Notes.md`, []string{"/tmp/My Notes.md"}},
		{"file:///tmp/Q1%20deck.pptx", []string{"/tmp/Q1 deck.pptx"}},
		{"~/docs/a.pdf", []string{filepath.Join(home, "docs/a.pdf")}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePaths(tt.in), tt.in)
	}
}

func TestDropZone_Submit(t *testing.T) {
	d := NewDropZone()
	d.Focus()
	assert.True(t, d.Focused())

	for _, r := range "/tmp/a.pdf" {
		d.Update(keyRunes(string(r)))
	}
	assert.Equal(t, "/tmp/a.pdf", d.Value())

	paths, _ := d.Update(keyType(tea.KeyEnter))
	assert.Equal(t, []string{"/tmp/a.pdf"}, paths)
	assert.Empty(t, d.Value())

	paths, _ = d.Update(keyType(tea.KeyEnter))
	assert.Empty(t, paths, "nothing typed")
}

func TestDropZone_BusyIgnoresInput(t *testing.T) {
	d := NewDropZone()
	d.Focus()
	d.SetBusy(true)
	d.Update(keyRunes("x"))
	assert.Empty(t, d.Value())
}

func TestDropZone_View(t *testing.T) {
	d := NewDropZone()
	out := d.View(testTheme(), 70, "|")
	assert.Contains(t, out, DropZoneTitle)
	assert.Contains(t, out, upload.SupportedFormats)

	d.SetBusy(true)
	assert.Contains(t, d.View(testTheme(), 70, "|"), "Uploading...")
}
