// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports chats as indented JSON. The chat keeps the backend's
// field names so an export can be read back into model.Chat.
type JSONExporter struct {
	options *Options
}

// jsonDocument wraps the chat with export metadata.
type jsonDocument struct {
	ExportedAt string     `json:"exportedAt"`
	Generator  string     `json:"generator"`
	Chat       model.Chat `json:"chat"`
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a chat to JSON.
func (e *JSONExporter) Export(chat model.Chat) ([]byte, error) {
	if chat.Messages == nil {
		chat.Messages = []model.Message{}
	}
	doc := jsonDocument{
		ExportedAt: e.options.now().UTC().Format(time.RFC3339),
		Generator:  generator,
		Chat:       chat,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
