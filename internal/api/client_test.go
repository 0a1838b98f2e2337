// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
	"github.com/jeranaias/chatwithdata-tui/internal/apitest"
	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/storage"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "correct horse"
)

func newAuthedClient(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("Ada", testEmail, testPassword)
	client := api.New(srv.BaseURL(), storage.NewMemoryStore(srv.TokenFor(testEmail)))
	return srv, client
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin(t *testing.T) {
	srv := apitest.New(t)
	want := srv.AddUser("Ada", testEmail, testPassword)
	client := api.New(srv.BaseURL(), nil)

	resp, err := client.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, want, resp.User)
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("Ada", testEmail, testPassword)
	client := api.New(srv.BaseURL(), nil)

	_, err := client.Login(context.Background(), testEmail, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Equal(t, "login", apiErr.Op)
}

func TestSignup(t *testing.T) {
	srv := apitest.New(t)
	client := api.New(srv.BaseURL(), nil)

	resp, err := client.Signup(context.Background(), "Grace", "grace@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Grace", resp.User.Name)
	assert.True(t, srv.UserExists("grace@example.com"))

	_, err = client.Signup(context.Background(), "Grace", "grace@example.com", "pw")
	assert.ErrorIs(t, err, api.ErrValidation, "duplicate signup is a 409")
}

func TestRequestPasswordReset(t *testing.T) {
	srv := apitest.New(t)
	client := api.New(srv.BaseURL(), nil)

	require.NoError(t, client.RequestPasswordReset(context.Background(), testEmail))
	assert.Equal(t, []string{testEmail}, srv.Resets())
}

func TestCompletePasswordReset(t *testing.T) {
	srv, client := newAuthedClient(t)
	ctx := context.Background()

	require.NoError(t, client.RequestPasswordReset(ctx, testEmail))
	token := srv.ResetToken(testEmail)
	require.NotEmpty(t, token)

	require.NoError(t, client.VerifyResetToken(ctx, token))
	require.NoError(t, client.UpdatePassword(ctx, token, "fresh-pw"))

	_, err := client.Login(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, api.ErrUnauthorized, "old password no longer works")
	_, err = client.Login(ctx, testEmail, "fresh-pw")
	assert.NoError(t, err)

	// Reset tokens are single use.
	err = client.VerifyResetToken(ctx, token)
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, "Invalid or expired reset token", api.MessageOf(err, ""))
	assert.ErrorIs(t, client.UpdatePassword(ctx, token, "again"), api.ErrValidation)
}

func TestDeleteAccount(t *testing.T) {
	srv, client := newAuthedClient(t)
	require.NoError(t, client.DeleteAccount(context.Background()))
	assert.False(t, srv.UserExists(testEmail))
}

// =============================================================================
// CHATS
// =============================================================================

func TestHistoryAndChat(t *testing.T) {
	srv, client := newAuthedClient(t)
	first := srv.AddChat(testEmail, "First", model.Message{Content: "hello", IsUser: true})
	second := srv.AddChat(testEmail, "Second", model.Message{Content: "hi"}, model.Message{Content: "answer"})

	history, err := client.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second, history[0].ID, "newest first")
	assert.Equal(t, first, history[1].ID)
	assert.Equal(t, "answer", history[0].LastMessage)

	detail, err := client.Chat(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "Second", detail.Title)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "hi", detail.Messages[0].Content)
}

func TestHistory_EmptyIsNonNil(t *testing.T) {
	_, client := newAuthedClient(t)
	history, err := client.History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestChat_NotFound(t *testing.T) {
	_, client := newAuthedClient(t)
	_, err := client.Chat(context.Background(), "missing")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestUpload(t *testing.T) {
	srv, client := newAuthedClient(t)

	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes"), 0600))

	result, err := client.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotEmpty(t, result.ChatID)
	assert.True(t, srv.ChatExists(result.ChatID))
	assert.Equal(t, "notes.md", srv.Title(result.ChatID))
}

func TestUpload_MissingFileIsValidation(t *testing.T) {
	srv, client := newAuthedClient(t)
	_, err := client.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Zero(t, srv.Calls(apitest.RouteUpload))
}

func TestMutations(t *testing.T) {
	srv, client := newAuthedClient(t)
	ctx := context.Background()
	a := srv.AddChat(testEmail, "A")
	b := srv.AddChat(testEmail, "B")
	c := srv.AddChat(testEmail, "C")

	require.NoError(t, client.RenameChat(ctx, a, "Renamed"))
	assert.Equal(t, "Renamed", srv.Title(a))

	require.NoError(t, client.DeleteChat(ctx, b))
	assert.False(t, srv.ChatExists(b))

	require.NoError(t, client.ArchiveChat(ctx, c))
	assert.True(t, srv.Archived(c))

	history, err := client.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, a, history[0].ID)

	require.NoError(t, client.ArchiveAllChats(ctx))
	assert.True(t, srv.Archived(a))

	require.NoError(t, client.DeleteAllChats(ctx))
	assert.False(t, srv.ChatExists(a))
}

// =============================================================================
// HEADERS AND ERRORS
// =============================================================================

func TestBearerAndRequestID(t *testing.T) {
	var gotAuth, gotID atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotID.Store(r.Header.Get(api.RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := api.New(server.URL, storage.NewMemoryStore("tok")).History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth.Load())
	assert.Len(t, gotID.Load().(string), 36)

	_, err = api.New(server.URL, storage.NewMemoryStore("")).History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth.Load(), "no header without a token")
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, api.ErrValidation},
		{http.StatusUnauthorized, api.ErrUnauthorized},
		{http.StatusForbidden, api.ErrUnauthorized},
		{http.StatusNotFound, api.ErrNotFound},
		{http.StatusConflict, api.ErrValidation},
		{http.StatusUnprocessableEntity, api.ErrValidation},
		{http.StatusTooManyRequests, api.ErrServerFailure},
		{http.StatusInternalServerError, api.ErrServerFailure},
		{http.StatusBadGateway, api.ErrServerFailure},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := api.New(server.URL, nil).DeleteAllChats(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message":"Title too long"}`, "Title too long"},
		{"detail string", `{"detail":"Chat not found"}`, "Chat not found"},
		{"detail list", `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, "field required; bad email"},
		{"error string", `{"error":"nope"}`, "nope"},
		{"error object", `{"error":{"message":"nested"}}`, "nested"},
		{"not json", `<html>oops</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := api.New(server.URL, nil).RenameChat(context.Background(), "c1", "x")
			var apiErr *api.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestNonconformingBodyIsServerFailure(t *testing.T) {
	bodies := []string{
		``,
		`{"not":"a list"}`,
		`[{"title":"missing id"}]`,
		`[{"id":"c1","timestamp":"last tuesday"}]`,
	}
	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		_, err := api.New(server.URL, nil).History(context.Background())
		assert.ErrorIs(t, err, api.ErrServerFailure, "body %q", body)
		server.Close()
	}
}

func TestHistoryEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chats":[{"id":"c1","title":"One"}]}`))
	}))
	defer server.Close()

	history, err := api.New(server.URL, nil).History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "One", history[0].Title)
}

func TestNetworkUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := api.New(url, nil).History(context.Background())
	assert.ErrorIs(t, err, api.ErrNetworkUnavailable)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := api.New(server.URL, nil, api.WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := client.History(context.Background())
	assert.ErrorIs(t, err, api.ErrNetworkUnavailable)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, err.Error(), "timed out")
}

func TestUploadRejectedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Unsupported document"}`))
	}))
	defer server.Close()

	_, err := api.New(server.URL, nil).UploadReader(context.Background(), "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, api.ErrServerFailure)
	assert.Equal(t, "Unsupported document", api.MessageOf(err, "fallback"))
}

func TestErrorHelpers(t *testing.T) {
	err := api.Validationf("rename", "Title cannot be empty")
	assert.Equal(t, api.KindValidation, api.KindOf(err))
	assert.Equal(t, "rename: validation: Title cannot be empty", err.Error())
	assert.Equal(t, "Title cannot be empty", err.UserMessage())

	assert.Equal(t, api.Kind(""), api.KindOf(errors.New("plain")))
	assert.Equal(t, "fallback", api.MessageOf(errors.New("plain"), "fallback"))

	assert.NotEmpty(t, (&api.Error{Kind: api.KindNetworkUnavailable}).UserMessage())
	assert.False(t, errors.Is(err, api.ErrNotFound))
}

func TestBaseURLDefaults(t *testing.T) {
	assert.Equal(t, api.DefaultBaseURL, api.New("", nil).BaseURL())
	assert.Equal(t, "http://x/api", api.New("http://x/api/", nil).BaseURL())
}
