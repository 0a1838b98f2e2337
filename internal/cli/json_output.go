// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output support for scripting.
//
// Provides a standardized JSON envelope for every CLI command so that
// scripts can rely on one shape.
package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the JSON response to w.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// SessionData is returned by login, signup, logout and whoami.
type SessionData struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
	Demo          bool        `json:"demo,omitempty"`
}

// MessageData carries a confirmation message for commands without a payload.
type MessageData struct {
	Message string `json:"message"`
	ChatID  string `json:"chat_id,omitempty"`
}

// UploadData is returned by the upload command.
type UploadData struct {
	ChatID  string `json:"chat_id,omitempty"`
	Message string `json:"message,omitempty"`
	File    string `json:"file"`
	Size    int64  `json:"size_bytes"`
	Pages   int    `json:"pages,omitempty"`
	Ignored int    `json:"ignored_files,omitempty"`
}

// ExportData is returned by chats export.
type ExportData struct {
	ChatID string `json:"chat_id"`
	Path   string `json:"path"`
	Format string `json:"format"`
}

// ConfigData is returned by config show.
type ConfigData struct {
	Path   string         `json:"config_path"`
	Values map[string]any `json:"values"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
