// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =============================================================================
// CHAT SUMMARY
// =============================================================================

// ChatSummary is one entry of the chat history list.
type ChatSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   Timestamp `json:"timestamp"`
}

// DisplayTitle returns the title, or a placeholder for untitled chats.
func (c ChatSummary) DisplayTitle() string {
	if c.Title == "" {
		return "Untitled chat"
	}
	return c.Title
}

// Validate checks a summary received from the backend.
func (c ChatSummary) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
	)
}

// ValidateSummaries validates every entry of a history listing and reports
// the first offending index.
func ValidateSummaries(chats []ChatSummary) error {
	for i, c := range chats {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("chat %d: %w", i, err)
		}
	}
	return nil
}

// =============================================================================
// CHAT DETAIL
// =============================================================================

// Chat is a conversation anchored to one uploaded document, with its
// messages ordered oldest first.
type Chat struct {
	ChatSummary
	Messages []Message `json:"messages"`
}

// UnmarshalJSON decodes the flattened wire shape into the embedded summary
// and the message list.
func (c *Chat) UnmarshalJSON(data []byte) error {
	var summary ChatSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return err
	}
	var rest struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	c.ChatSummary = summary
	c.Messages = rest.Messages
	return nil
}

// Validate checks the chat detail and each of its messages.
func (c Chat) Validate() error {
	if err := c.ChatSummary.Validate(); err != nil {
		return err
	}
	for i, m := range c.Messages {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

// =============================================================================
// UPLOAD RESULT
// =============================================================================

// UploadResult is the backend's reply to a document upload.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ChatID  string `json:"chatId"`
}

// UnmarshalJSON accepts "id" as a fallback key for the chat identifier.
func (u *UploadResult) UnmarshalJSON(data []byte) error {
	var wire struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
		ChatID  string `json:"chatId"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	u.Message = wire.Message
	u.ChatID = wire.ChatID
	if u.ChatID == "" {
		u.ChatID = wire.ID
	}
	// A 2xx reply without the flag is a success.
	u.Success = wire.Success == nil || *wire.Success
	return nil
}
