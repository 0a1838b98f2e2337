// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Author identifies who wrote a message.
type Author int

const (
	AuthorAssistant Author = iota
	AuthorUser
)

// String returns a human-readable name for the author.
func (a Author) String() string {
	if a == AuthorUser {
		return "You"
	}
	return "Assistant"
}

// Message is a single turn of a chat. Messages are created by the backend
// and never modified by the client.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"isUser"`
	Timestamp Timestamp `json:"timestamp"`
}

// Author returns the author of the message.
func (m Message) Author() Author {
	if m.IsUser {
		return AuthorUser
	}
	return AuthorAssistant
}

// Validate checks a message received from the backend.
func (m Message) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
	)
}
