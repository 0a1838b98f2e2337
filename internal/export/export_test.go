// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func sampleChat() model.Chat {
	ts := model.Timestamp{Time: time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)}
	return model.Chat{
		ChatSummary: model.ChatSummary{ID: "c1", Title: "Q3 report", LastMessage: "Revenue grew 12%.", Timestamp: ts},
		Messages: []model.Message{
			{ID: "m1", Content: "How did revenue change?", IsUser: true, Timestamp: ts},
			{ID: "m2", Content: "  Revenue grew **12%**.\n", Timestamp: ts},
		},
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions(t.TempDir())).Export(sampleChat())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\ntitle: Q3 report\nchat_id: c1\n"))
	assert.Contains(t, md, "messages: 2\n")
	assert.Contains(t, md, "exported: 2025-03-14T09:26:53Z\n")
	assert.Contains(t, md, "# Q3 report\n")
	assert.Contains(t, md, "### You <sub>")
	assert.Contains(t, md, "### Assistant <sub>")
	assert.Contains(t, md, "Revenue grew **12%**.\n\n")
	assert.Less(t, strings.Index(md, "How did revenue change?"), strings.Index(md, "Revenue grew"))
}

func TestMarkdownExport_NoMetadata(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(sampleChat())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "# Q3 report"))
	assert.Contains(t, md, "### You\n")
	assert.NotContains(t, md, "<sub>")
}

func TestMarkdownExport_EmptyChat(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(model.Chat{ChatSummary: model.ChatSummary{ID: "c2"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Untitled chat")
	assert.Contains(t, string(out), "_No messages yet._")
}

func TestMarkdownExport_RequiresID(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(model.Chat{})
	assert.Error(t, err)
}

func TestYAMLNewlineInjection(t *testing.T) {
	chat := sampleChat()
	chat.Title = "Test\nInjection: malicious"

	out, err := NewMarkdownExporter(testOptions(t.TempDir())).Export(chat)
	require.NoError(t, err)

	assert.Contains(t, string(out), `title: "Test\nInjection: malicious"`)
	assert.NotContains(t, string(out), "\nInjection: malicious\n")
}

func TestJSONExport_ReadsBack(t *testing.T) {
	chat := sampleChat()
	out, err := NewJSONExporter(testOptions(t.TempDir())).Export(chat)
	require.NoError(t, err)

	var doc struct {
		ExportedAt string     `json:"exportedAt"`
		Chat       model.Chat `json:"chat"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "2025-03-14T09:26:53Z", doc.ExportedAt)
	assert.Equal(t, "c1", doc.Chat.ID)
	assert.Equal(t, "Q3 report", doc.Chat.Title)
	require.Len(t, doc.Chat.Messages, 2)
	assert.True(t, doc.Chat.Messages[0].IsUser)
	assert.True(t, chat.Messages[1].Timestamp.Equal(doc.Chat.Messages[1].Timestamp.Time))
}

func TestJSONExport_EmptyMessagesIsArray(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(model.Chat{ChatSummary: model.ChatSummary{ID: "c2"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"messages": []`)
}

func TestForFormat(t *testing.T) {
	for _, name := range []string{"", "markdown", "MD", " md "} {
		exp, err := ForFormat(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, ".md", exp.FileExtension())
	}

	exp, err := ForFormat("json", nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", exp.MimeType())

	_, err = ForFormat("html", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExportToFile_GeneratedName(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)

	path, err := ExportToFile(sampleChat(), NewMarkdownExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chat_Q3_report_20250314_092653.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Q3 report")
}

func TestExportToFile_ExplicitPath(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.Path = filepath.Join(t.TempDir(), "nested", "out.json")

	path, err := ExportToFile(sampleChat(), NewJSONExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Path, path)
	assert.FileExists(t, path)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Q3 report", "Q3_report"},
		{`a/b\c:d*e?f"g<h>i|j`, "a-b-c-d-e-f-g-h-i-j"},
		{"tab\there", "tab_here"},
		{"bell\x07", "bell-"},
		{"", "chat"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
