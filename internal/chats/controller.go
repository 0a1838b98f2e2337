// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chats

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
	"github.com/jeranaias/chatwithdata-tui/internal/logging"
	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/upload"
)

// Backend is the subset of the API client used by the controller.
type Backend interface {
	History(ctx context.Context) ([]model.ChatSummary, error)
	Chat(ctx context.Context, id string) (model.Chat, error)
	Upload(ctx context.Context, path string) (model.UploadResult, error)
	RenameChat(ctx context.Context, id, title string) error
	DeleteChat(ctx context.Context, id string) error
	DeleteAllChats(ctx context.Context) error
	ArchiveChat(ctx context.Context, id string) error
	ArchiveAllChats(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// Session is the subset of the session store used by the controller.
type Session interface {
	Logout()
	Demo() bool
}

// Options configures a Controller. Nil fields get safe defaults: no
// notifications, every confirmation declined, no logging.
type Options struct {
	Confirmer Confirmer
	Notifier  Notifier
	Logger    *zap.Logger
	Gate      *upload.Gate
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the chat view controller. It is safe for concurrent use.
type Controller struct {
	backend   Backend
	session   Session
	gate      *upload.Gate
	confirmer Confirmer
	notifier  Notifier
	logger    *zap.Logger

	mu       sync.Mutex
	selected string
	newChat  bool
	pending  Operation
	history  []model.ChatSummary
	detail   *model.Chat
}

// New creates a controller in new-chat context with nothing selected.
func New(backend Backend, session Session, opts Options) *Controller {
	c := &Controller{
		backend:   backend,
		session:   session,
		gate:      opts.Gate,
		confirmer: opts.Confirmer,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		newChat:   true,
	}
	if c.gate == nil {
		c.gate = upload.NewGate()
	}
	if c.confirmer == nil {
		c.confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	c.logger = logging.OrNop(c.logger)
	return c
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Selected returns the selected chat id, if any.
func (c *Controller) Selected() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.selected != ""
}

// NewChatContext reports whether the view is at the start of a new chat.
func (c *Controller) NewChatContext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.newChat
}

// Pending returns the pending operation marker.
func (c *Controller) Pending() Operation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// History returns a copy of the last fetched chat list.
func (c *Controller) History() []model.ChatSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ChatSummary(nil), c.history...)
}

// Detail returns the displayed chat, if one is loaded.
func (c *Controller) Detail() (model.Chat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detail == nil {
		return model.Chat{}, false
	}
	return *c.detail, true
}

// Reset drops all view state, e.g. after the session ended.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.history = nil
	c.mu.Unlock()
}

func (c *Controller) resetLocked() {
	c.selected = ""
	c.newChat = true
	c.detail = nil
}

// =============================================================================
// READS
// =============================================================================

// Refresh re-fetches the chat list. It is not guarded by the pending marker.
func (c *Controller) Refresh(ctx context.Context) ([]model.ChatSummary, error) {
	// The demo session has no server-side chats.
	if c.demo() {
		c.mu.Lock()
		c.history = nil
		c.mu.Unlock()
		return []model.ChatSummary{}, nil
	}

	history, err := c.backend.History(ctx)
	if err != nil {
		c.fail("history", err, MsgLoadFailed)
		return nil, err
	}

	c.mu.Lock()
	c.history = history
	if c.detail != nil {
		for _, s := range history {
			if s.ID == c.detail.ID {
				c.detail.ChatSummary = s
				break
			}
		}
	}
	c.mu.Unlock()

	return append([]model.ChatSummary(nil), history...), nil
}

// Select makes id the displayed chat and fetches its thread.
func (c *Controller) Select(ctx context.Context, id string) (model.Chat, error) {
	if id == "" {
		return model.Chat{}, api.Validationf("select", "chat id is required")
	}

	c.mu.Lock()
	c.selected = id
	c.newChat = false
	if c.detail != nil && c.detail.ID != id {
		c.detail = nil
	}
	c.mu.Unlock()

	chat, err := c.backend.Chat(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			c.mu.Lock()
			if c.selected == id {
				c.resetLocked()
			}
			c.mu.Unlock()
		}
		c.fail("select", err, MsgChatFailed)
		return model.Chat{}, err
	}

	c.mu.Lock()
	if c.selected == id {
		c.detail = &chat
	}
	c.mu.Unlock()
	return chat, nil
}

// NewChat clears the selection and enters new-chat context.
func (c *Controller) NewChat() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Upload sends the first of paths to start a new chat. On success the new
// chat is selected when the backend returns its id.
func (c *Controller) Upload(ctx context.Context, paths ...string) (model.UploadResult, error) {
	if err := c.begin(OpUpload); err != nil {
		return model.UploadResult{}, err
	}
	defer c.end()

	c.mu.Lock()
	newChat := c.newChat
	c.mu.Unlock()

	sel, err := c.gate.Check(newChat, paths)
	if err != nil {
		c.fail("upload", err, MsgUploadFailed)
		return model.UploadResult{}, err
	}
	if sel.Dropped > 0 {
		c.notify(LevelWarning, upload.MsgOnlyFirstFile)
	}

	result, err := c.backend.Upload(ctx, sel.Path)
	if err != nil {
		c.fail("upload", err, MsgUploadFailed)
		return result, err
	}

	c.mu.Lock()
	c.newChat = false
	if result.ChatID != "" {
		c.selected = result.ChatID
		c.detail = nil
	}
	c.mu.Unlock()

	c.logger.Info("document uploaded", zap.String("name", sel.Name), zap.String("chat_id", result.ChatID))
	c.notify(LevelSuccess, MsgUploaded)
	c.refreshAfterMutation(ctx)
	if result.ChatID != "" {
		c.loadDetail(ctx, result.ChatID)
	}
	return result, nil
}

// Rename sets the title of chat id. Empty or all-whitespace titles are
// rejected without a network call.
func (c *Controller) Rename(ctx context.Context, id, title string) error {
	title = norm.NFC.String(strings.TrimSpace(title))
	if title == "" {
		err := api.Validationf("rename", MsgEmptyTitle)
		c.notify(LevelError, MsgEmptyTitle)
		return err
	}

	if err := c.begin(OpEdit(id)); err != nil {
		return err
	}
	defer c.end()

	if err := c.backend.RenameChat(ctx, id, title); err != nil {
		c.fail("rename", err, MsgRenameFailed)
		return err
	}

	c.notify(LevelSuccess, MsgRenamed)
	c.refreshAfterMutation(ctx)
	return nil
}

// Delete deletes chat id after confirmation.
func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.removeOne(ctx, OpDelete(id), id, PromptDeleteChat, c.backend.DeleteChat, MsgDeleted, MsgDeleteFailed)
}

// Archive archives chat id after confirmation.
func (c *Controller) Archive(ctx context.Context, id string) error {
	return c.removeOne(ctx, OpArchive(id), id, PromptArchiveChat, c.backend.ArchiveChat, MsgArchived, MsgArchiveFailed)
}

// DeleteAll deletes every chat after confirmation.
func (c *Controller) DeleteAll(ctx context.Context) error {
	return c.removeAll(ctx, OpDeleteAll, PromptDeleteAll, c.backend.DeleteAllChats, MsgDeletedAll, MsgDeleteAllFail)
}

// ArchiveAll archives every chat after confirmation.
func (c *Controller) ArchiveAll(ctx context.Context) error {
	return c.removeAll(ctx, OpArchiveAll, PromptArchiveAll, c.backend.ArchiveAllChats, MsgArchivedAll, MsgArchiveAllFail)
}

// DeleteAccount deletes the user's account after confirmation and then
// ends the session.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	if err := c.begin(OpDeleteAccount); err != nil {
		return err
	}
	defer c.end()

	if !c.confirm(ctx, PromptDeleteAccount) {
		return nil
	}

	if err := c.backend.DeleteAccount(ctx); err != nil {
		c.fail("delete-account", err, MsgAccountFailed)
		return err
	}

	c.logger.Info("account deleted")
	c.Reset()
	c.notify(LevelSuccess, MsgAccountDeleted)
	if c.session != nil {
		c.session.Logout()
	}
	return nil
}

func (c *Controller) removeOne(ctx context.Context, op Operation, id, prompt string,
	call func(context.Context, string) error, okMsg, failMsg string) error {
	if id == "" {
		return api.Validationf(string(op), "chat id is required")
	}
	if err := c.begin(op); err != nil {
		return err
	}
	defer c.end()

	if !c.confirm(ctx, prompt) {
		return nil
	}

	if err := call(ctx, id); err != nil {
		c.fail(op.String(), err, failMsg)
		return err
	}

	c.mu.Lock()
	if c.selected == id {
		c.resetLocked()
	}
	c.mu.Unlock()

	c.notify(LevelSuccess, okMsg)
	c.refreshAfterMutation(ctx)
	return nil
}

func (c *Controller) removeAll(ctx context.Context, op Operation, prompt string,
	call func(context.Context) error, okMsg, failMsg string) error {
	if err := c.begin(op); err != nil {
		return err
	}
	defer c.end()

	if !c.confirm(ctx, prompt) {
		return nil
	}

	if err := call(ctx); err != nil {
		c.fail(op.String(), err, failMsg)
		return err
	}

	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()

	c.notify(LevelSuccess, okMsg)
	c.refreshAfterMutation(ctx)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// begin claims the pending marker for op.
func (c *Controller) begin(op Operation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pending.Idle() {
		c.logger.Debug("operation rejected while busy",
			zap.Stringer("requested", op), zap.Stringer("pending", c.pending))
		return ErrBusy
	}
	c.pending = op
	return nil
}

// end releases the pending marker.
func (c *Controller) end() {
	c.mu.Lock()
	c.pending = OpNone
	c.mu.Unlock()
}

func (c *Controller) confirm(ctx context.Context, prompt string) bool {
	c.mu.Lock()
	conf := c.confirmer
	c.mu.Unlock()
	return conf.Confirm(ctx, prompt)
}

func (c *Controller) demo() bool {
	return c.session != nil && c.session.Demo()
}

func (c *Controller) notify(level Level, message string) {
	c.mu.Lock()
	n := c.notifier
	c.mu.Unlock()
	n.Notify(level, message)
}

// refreshAfterMutation re-fetches the list. A failure is reported but does
// not turn the completed mutation into an error.
func (c *Controller) refreshAfterMutation(ctx context.Context) {
	_, _ = c.Refresh(ctx)
}

func (c *Controller) loadDetail(ctx context.Context, id string) {
	chat, err := c.backend.Chat(ctx, id)
	if err != nil {
		c.fail("select", err, MsgChatFailed)
		return
	}
	c.mu.Lock()
	if c.selected == id {
		c.detail = &chat
	}
	c.mu.Unlock()
}

// fail reports err. Validation messages are shown verbatim; others are
// shown as fallback plus backend detail. Unauthorized ends the session.
func (c *Controller) fail(op string, err error, fallback string) {
	kind := api.KindOf(err)
	c.logger.Warn("operation failed", zap.String("op", op), zap.String("kind", kind.String()), zap.Error(err))

	switch kind {
	case api.KindValidation:
		c.notify(LevelError, api.MessageOf(err, fallback))
	case api.KindUnauthorized:
		if c.demo() {
			c.notify(LevelWarning, MsgDemoUnavailable)
			return
		}
		c.notify(LevelError, (&api.Error{Kind: api.KindUnauthorized}).UserMessage())
		c.Reset()
		if c.session != nil {
			c.session.Logout()
		}
	default:
		msg := fallback
		if detail := api.MessageOf(err, ""); detail != "" {
			msg = fallback + ": " + detail
		}
		c.notify(LevelError, msg)
	}
}
