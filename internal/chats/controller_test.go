// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chats

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
	"github.com/jeranaias/chatwithdata-tui/internal/apitest"
	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/session"
	"github.com/jeranaias/chatwithdata-tui/internal/storage"
	"github.com/jeranaias/chatwithdata-tui/internal/upload"
)

const testEmail = "ada@example.com"

type note struct {
	level   Level
	message string
}

type recorder struct {
	mu      sync.Mutex
	notes   []note
	prompts []string
	answer  bool
}

func (r *recorder) Notify(level Level, message string) {
	r.mu.Lock()
	r.notes = append(r.notes, note{level, message})
	r.mu.Unlock()
}

func (r *recorder) Confirm(_ context.Context, prompt string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, prompt)
	return r.answer
}

func (r *recorder) Last() note {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return note{}
	}
	return r.notes[len(r.notes)-1]
}

func (r *recorder) Has(level Level, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.level == level && n.message == message {
			return true
		}
	}
	return false
}

type fixture struct {
	srv   *apitest.Server
	creds *storage.MemoryStore
	store *session.Store
	rec   *recorder
	ctrl  *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("Ada", testEmail, "pw")

	creds := storage.NewMemoryStore(srv.TokenFor(testEmail))
	client := api.New(srv.BaseURL(), creds)
	store := session.NewStore(creds, client, session.DefaultConfig())
	require.Equal(t, session.StateAuthenticated, store.Restore())

	rec := &recorder{answer: true}
	ctrl := New(client, store, Options{Confirmer: rec, Notifier: rec})
	return &fixture{srv: srv, creds: creds, store: store, rec: rec, ctrl: ctrl}
}

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0600))
	return path
}

// =============================================================================
// INITIAL STATE AND SELECTION
// =============================================================================

func TestNew_StartsInNewChatContext(t *testing.T) {
	f := newFixture(t)
	_, ok := f.ctrl.Selected()
	assert.False(t, ok)
	assert.True(t, f.ctrl.NewChatContext())
	assert.Equal(t, OpNone, f.ctrl.Pending())
}

func TestSelect(t *testing.T) {
	f := newFixture(t)
	id := f.srv.AddChat(testEmail, "Report", model.Message{Content: "q", IsUser: true}, model.Message{Content: "a"})

	chat, err := f.ctrl.Select(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, chat.Messages, 2)

	selected, ok := f.ctrl.Selected()
	assert.True(t, ok)
	assert.Equal(t, id, selected)
	assert.False(t, f.ctrl.NewChatContext())

	detail, ok := f.ctrl.Detail()
	require.True(t, ok)
	assert.Equal(t, "Report", detail.Title)

	f.ctrl.NewChat()
	_, ok = f.ctrl.Selected()
	assert.False(t, ok)
	assert.True(t, f.ctrl.NewChatContext())
	_, ok = f.ctrl.Detail()
	assert.False(t, ok)
}

func TestSelect_NotFoundRevertsToNewChat(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.Select(context.Background(), "gone")
	assert.ErrorIs(t, err, api.ErrNotFound)
	_, ok := f.ctrl.Selected()
	assert.False(t, ok)
	assert.True(t, f.ctrl.NewChatContext())
	assert.Equal(t, LevelError, f.rec.Last().level)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	f.srv.AddChat(testEmail, "One")
	f.srv.AddChat(testEmail, "Two")

	list, err := f.ctrl.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Len(t, f.ctrl.History(), 2)
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestUpload_NewChatFlow(t *testing.T) {
	f := newFixture(t)

	result, err := f.ctrl.Upload(context.Background(), writeFile(t, "notes.md"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.srv.Calls(apitest.RouteUpload))

	assert.False(t, f.ctrl.NewChatContext())
	selected, ok := f.ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, result.ChatID, selected)
	assert.True(t, f.rec.Has(LevelSuccess, MsgUploaded))

	assert.Len(t, f.ctrl.History(), 1, "history refreshed after upload")
	detail, ok := f.ctrl.Detail()
	require.True(t, ok)
	assert.Equal(t, result.ChatID, detail.ID)
}

func TestUpload_InvalidTypeRejectedLocally(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Upload(context.Background(), writeFile(t, "archive.zip"))
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Zero(t, f.srv.TotalCalls())
	assert.Equal(t, note{LevelError, upload.MsgInvalidType}, f.rec.Last())
	assert.True(t, f.ctrl.NewChatContext())
}

func TestUpload_OutsideNewChatRejected(t *testing.T) {
	f := newFixture(t)
	id := f.srv.AddChat(testEmail, "Existing")
	_, err := f.ctrl.Select(context.Background(), id)
	require.NoError(t, err)
	before := f.srv.TotalCalls()

	_, err = f.ctrl.Upload(context.Background(), writeFile(t, "notes.md"))
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, before, f.srv.TotalCalls())
	assert.Equal(t, note{LevelError, upload.MsgNotNewChat}, f.rec.Last())
}

func TestUpload_MultipleFilesWarns(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.Upload(context.Background(), writeFile(t, "a.txt"), writeFile(t, "b.txt"))
	require.NoError(t, err)
	assert.True(t, f.rec.Has(LevelWarning, upload.MsgOnlyFirstFile))
	assert.Equal(t, 1, f.srv.Calls(apitest.RouteUpload))
}

func TestUpload_FailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.srv.FailNext(apitest.RouteUpload, http.StatusInternalServerError, "disk full")

	_, err := f.ctrl.Upload(context.Background(), writeFile(t, "notes.md"))
	assert.ErrorIs(t, err, api.ErrServerFailure)
	assert.True(t, f.ctrl.NewChatContext())
	assert.Equal(t, note{LevelError, MsgUploadFailed + ": disk full"}, f.rec.Last())
	assert.Equal(t, OpNone, f.ctrl.Pending())
}

// =============================================================================
// RENAME
// =============================================================================

func TestRename(t *testing.T) {
	f := newFixture(t)
	id := f.srv.AddChat(testEmail, "Old")

	require.NoError(t, f.ctrl.Rename(context.Background(), id, "  New title "))
	assert.Equal(t, "New title", f.srv.Title(id))
	assert.Equal(t, 1, f.srv.Calls(apitest.RouteHistory), "list refreshed")
}

func TestRename_EmptyTitleNoNetwork(t *testing.T) {
	f := newFixture(t)
	id := f.srv.AddChat(testEmail, "Old")

	for _, title := range []string{"", "   ", "\t\n"} {
		err := f.ctrl.Rename(context.Background(), id, title)
		assert.ErrorIs(t, err, api.ErrValidation)
	}
	assert.Zero(t, f.srv.TotalCalls())
	assert.Equal(t, "Old", f.srv.Title(id))
}

// =============================================================================
// DELETE / ARCHIVE
// =============================================================================

func TestDelete_SelectedChatClearsSelection(t *testing.T) {
	f := newFixture(t)
	id := f.srv.AddChat(testEmail, "Doomed")
	_, err := f.ctrl.Select(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, f.ctrl.Delete(context.Background(), id))

	assert.False(t, f.srv.ChatExists(id))
	_, ok := f.ctrl.Selected()
	assert.False(t, ok)
	assert.True(t, f.ctrl.NewChatContext())
	assert.Equal(t, []string{PromptDeleteChat}, f.rec.prompts)
	assert.Empty(t, f.ctrl.History())
}

func TestDelete_OtherChatKeepsSelection(t *testing.T) {
	f := newFixture(t)
	keep := f.srv.AddChat(testEmail, "Keep")
	drop := f.srv.AddChat(testEmail, "Drop")
	_, err := f.ctrl.Select(context.Background(), keep)
	require.NoError(t, err)

	require.NoError(t, f.ctrl.Delete(context.Background(), drop))
	selected, ok := f.ctrl.Selected()
	assert.True(t, ok)
	assert.Equal(t, keep, selected)
}

func TestArchive_SelectedChatClearsSelection(t *testing.T) {
	f := newFixture(t)
	id := f.srv.AddChat(testEmail, "Old news")
	_, err := f.ctrl.Select(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, f.ctrl.Archive(context.Background(), id))
	assert.True(t, f.srv.Archived(id))
	_, ok := f.ctrl.Selected()
	assert.False(t, ok)
	assert.True(t, f.ctrl.NewChatContext())
	assert.Empty(t, f.ctrl.History(), "archived chats leave the list")
}

func TestDeclinedConfirmationMakesNoCall(t *testing.T) {
	f := newFixture(t)
	f.rec.answer = false
	id := f.srv.AddChat(testEmail, "Safe")

	require.NoError(t, f.ctrl.Delete(context.Background(), id))
	require.NoError(t, f.ctrl.Archive(context.Background(), id))
	require.NoError(t, f.ctrl.DeleteAll(context.Background()))
	require.NoError(t, f.ctrl.ArchiveAll(context.Background()))
	require.NoError(t, f.ctrl.DeleteAccount(context.Background()))

	assert.Zero(t, f.srv.TotalCalls())
	assert.True(t, f.srv.ChatExists(id))
	assert.Len(t, f.rec.prompts, 5)
	assert.Equal(t, OpNone, f.ctrl.Pending())
}

func TestDeleteAllAndArchiveAll(t *testing.T) {
	f := newFixture(t)
	a := f.srv.AddChat(testEmail, "A")
	b := f.srv.AddChat(testEmail, "B")
	_, err := f.ctrl.Select(context.Background(), a)
	require.NoError(t, err)

	require.NoError(t, f.ctrl.ArchiveAll(context.Background()))
	assert.True(t, f.srv.Archived(a))
	assert.True(t, f.srv.Archived(b))
	_, ok := f.ctrl.Selected()
	assert.False(t, ok)
	assert.True(t, f.rec.Has(LevelSuccess, MsgArchivedAll))

	require.NoError(t, f.ctrl.DeleteAll(context.Background()))
	assert.False(t, f.srv.ChatExists(a))
	assert.True(t, f.rec.Has(LevelSuccess, MsgDeletedAll))
}

func TestDeleteAll_FailureNotifies(t *testing.T) {
	f := newFixture(t)
	a := f.srv.AddChat(testEmail, "A")
	_, err := f.ctrl.Select(context.Background(), a)
	require.NoError(t, err)
	f.srv.FailNext(apitest.RouteDeleteAll, http.StatusInternalServerError, "")

	err = f.ctrl.DeleteAll(context.Background())
	assert.ErrorIs(t, err, api.ErrServerFailure)
	assert.Equal(t, note{LevelError, MsgDeleteAllFail}, f.rec.Last())

	selected, ok := f.ctrl.Selected()
	assert.True(t, ok, "state unchanged on failure")
	assert.Equal(t, a, selected)
}

// =============================================================================
// ACCOUNT AND SESSION
// =============================================================================

func TestDeleteAccount_LogsOut(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.DeleteAccount(context.Background()))

	assert.False(t, f.srv.UserExists(testEmail))
	assert.False(t, f.store.Authenticated())
	_, ok := f.creds.Token()
	assert.False(t, ok)
	assert.Equal(t, []string{PromptDeleteAccount}, f.rec.prompts)
}

func TestDeleteAccount_FailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.srv.FailNext(apitest.RouteDeleteAccount, http.StatusBadGateway, "")

	err := f.ctrl.DeleteAccount(context.Background())
	assert.ErrorIs(t, err, api.ErrServerFailure)
	assert.True(t, f.store.Authenticated())
	assert.Equal(t, note{LevelError, MsgAccountFailed}, f.rec.Last())
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.creds.Save("expired-token"))

	_, err := f.ctrl.Refresh(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, f.store.Authenticated())
	_, ok := f.creds.Token()
	assert.False(t, ok)
}

func TestDemoSessionSurvivesBackendRejection(t *testing.T) {
	f := newFixture(t)
	f.store.Logout()
	require.NoError(t, f.store.Login(context.Background(), session.DemoEmail, session.DemoPassword))
	require.True(t, f.store.Demo())

	list, err := f.ctrl.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, f.srv.Calls(apitest.RouteHistory), "demo history is local")

	_, err = f.ctrl.Upload(context.Background(), writeFile(t, "notes.md"))
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, note{LevelWarning, MsgDemoUnavailable}, f.rec.Last())

	assert.True(t, f.store.Authenticated(), "demo session must not be logged out")
	token, ok := f.creds.Token()
	assert.True(t, ok)
	assert.Equal(t, session.DemoToken, token)
}

// =============================================================================
// PENDING GUARD
// =============================================================================

// blockingBackend holds DeleteAllChats until released.
type blockingBackend struct {
	*api.Client
	entered chan struct{}
	release chan struct{}
}

func (b *blockingBackend) DeleteAllChats(ctx context.Context) error {
	close(b.entered)
	<-b.release
	return b.Client.DeleteAllChats(ctx)
}

func TestSecondMutationWhilePendingIsRejected(t *testing.T) {
	f := newFixture(t)
	id := f.srv.AddChat(testEmail, "A")

	backend := &blockingBackend{
		Client:  api.New(f.srv.BaseURL(), f.creds),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	ctrl := New(backend, f.store, Options{Confirmer: ConfirmFunc(func(context.Context, string) bool { return true }), Notifier: f.rec})

	done := make(chan error, 1)
	go func() { done <- ctrl.DeleteAll(context.Background()) }()

	select {
	case <-backend.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("delete-all never reached the backend")
	}
	assert.Equal(t, OpDeleteAll, ctrl.Pending())

	before := f.srv.TotalCalls()
	assert.ErrorIs(t, ctrl.Delete(context.Background(), id), ErrBusy)
	assert.ErrorIs(t, ctrl.ArchiveAll(context.Background()), ErrBusy)
	assert.ErrorIs(t, ctrl.Rename(context.Background(), id, "x"), ErrBusy)
	_, err := ctrl.Upload(context.Background(), "notes.md")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, ctrl.DeleteAccount(context.Background()), ErrBusy)
	assert.Equal(t, before, f.srv.TotalCalls(), "rejected actions make no network call")

	// Reads are not guarded.
	_, err = ctrl.Refresh(context.Background())
	assert.NoError(t, err)

	close(backend.release)
	require.NoError(t, <-done)
	assert.Equal(t, OpNone, ctrl.Pending())
}

func TestOperationMarkers(t *testing.T) {
	assert.Equal(t, Operation("edit-7"), OpEdit("7"))
	assert.Equal(t, Operation("delete-7"), OpDelete("7"))
	assert.Equal(t, Operation("archive-7"), OpArchive("7"))
	assert.True(t, OpDelete("7").Targets("7"))
	assert.False(t, OpDelete("7").Targets("8"))
	assert.False(t, OpDeleteAll.Targets("7"))
	assert.True(t, OpNone.Idle())
	assert.Equal(t, "none", OpNone.String())
}
