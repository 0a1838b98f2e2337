// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2024-05-01T10:30:00Z", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), false},
		{"fractional with offset", "2024-05-01T10:30:00.123+02:00", time.Date(2024, 5, 1, 8, 30, 0, 123000000, time.UTC), false},
		{"naive", "2024-05-01T10:30:00.5", time.Date(2024, 5, 1, 10, 30, 0, 500000000, time.UTC), false},
		{"space separated", "2024-05-01 10:30:00", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), false},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %v want %v", got.Time, tt.want)
		})
	}
}

func TestTimestampJSONNull(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"id":"m1","timestamp":null}`), &m))
	assert.True(t, m.Timestamp.IsZero())

	err := json.Unmarshal([]byte(`{"id":"m1","timestamp":42}`), &m)
	require.Error(t, err)
}

func TestTimestampDisplay(t *testing.T) {
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.Local)

	today := Timestamp{Time: time.Date(2024, 5, 1, 9, 5, 0, 0, time.Local)}
	assert.Equal(t, "09:05", today.Display(now))

	earlier := Timestamp{Time: time.Date(2024, 3, 7, 9, 5, 0, 0, time.Local)}
	assert.Equal(t, "Mar 7", earlier.Display(now))

	lastYear := Timestamp{Time: time.Date(2023, 3, 7, 9, 5, 0, 0, time.Local)}
	assert.Equal(t, "Mar 7 2023", lastYear.Display(now))

	assert.Empty(t, Timestamp{}.Display(now))
}

func TestChatDecode(t *testing.T) {
	body := `{
		"id": "c1",
		"title": "Quarterly report",
		"lastMessage": "Revenue grew.",
		"timestamp": "2024-05-01T10:30:00Z",
		"messages": [
			{"id": "m1", "content": "What changed?", "isUser": true, "timestamp": "2024-05-01T10:29:00Z"},
			{"id": "m2", "content": "Revenue grew.", "isUser": false, "timestamp": "2024-05-01T10:30:00Z"}
		]
	}`

	var chat Chat
	require.NoError(t, json.Unmarshal([]byte(body), &chat))
	require.NoError(t, chat.Validate())

	assert.Equal(t, "c1", chat.ID)
	assert.Equal(t, "Quarterly report", chat.Title)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, AuthorUser, chat.Messages[0].Author())
	assert.Equal(t, AuthorAssistant, chat.Messages[1].Author())
	assert.Equal(t, "You", chat.Messages[0].Author().String())
}

func TestChatValidateRejectsMissingIDs(t *testing.T) {
	var chat Chat
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","messages":[]}`), &chat))
	assert.Error(t, chat.Validate())

	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","messages":[{"content":"hi"}]}`), &chat))
	err := chat.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message 0")
}

func TestValidateSummaries(t *testing.T) {
	good := []ChatSummary{{ID: "a"}, {ID: "b", Title: "B"}}
	assert.NoError(t, ValidateSummaries(good))

	bad := []ChatSummary{{ID: "a"}, {Title: "no id"}}
	err := ValidateSummaries(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 1")
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Untitled chat", ChatSummary{ID: "a"}.DisplayTitle())
	assert.Equal(t, "Notes", ChatSummary{ID: "a", Title: "Notes"}.DisplayTitle())
}

func TestUploadResultDecode(t *testing.T) {
	var r UploadResult
	require.NoError(t, json.Unmarshal([]byte(`{"success":true,"message":"ok","chatId":"c9"}`), &r))
	assert.True(t, r.Success)
	assert.Equal(t, "c9", r.ChatID)

	r = UploadResult{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c10"}`), &r))
	assert.True(t, r.Success)
	assert.Equal(t, "c10", r.ChatID)

	r = UploadResult{}
	require.NoError(t, json.Unmarshal([]byte(`{"success":false,"message":"too large"}`), &r))
	assert.False(t, r.Success)
	assert.Equal(t, "too large", r.Message)
	assert.Empty(t, r.ChatID)
}

func TestUserValidate(t *testing.T) {
	assert.NoError(t, User{ID: "1", Name: "Demo User", Email: "demo@example.com"}.Validate())
	assert.Error(t, User{ID: "1", Email: "not-an-email"}.Validate())
	assert.Error(t, User{Email: "demo@example.com"}.Validate())

	assert.Equal(t, "demo@example.com", User{Email: "demo@example.com"}.DisplayName())
	assert.Equal(t, "Demo User", User{Name: "Demo User", Email: "demo@example.com"}.DisplayName())
}

func TestAuthResponseValidate(t *testing.T) {
	resp := AuthResponse{Token: "t", User: User{ID: "1", Email: "a@b.co"}}
	assert.NoError(t, resp.Validate())

	resp.Token = ""
	assert.Error(t, resp.Validate())

	resp = AuthResponse{Token: "t", User: User{ID: "", Email: "a@b.co"}}
	assert.Error(t, resp.Validate())
}
