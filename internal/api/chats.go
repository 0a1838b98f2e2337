// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
)

// UploadField is the multipart field name carrying the document.
const UploadField = "file"

// historyList accepts both a bare array and a {"chats": [...]} envelope.
type historyList []model.ChatSummary

func (h *historyList) UnmarshalJSON(data []byte) error {
	var list []model.ChatSummary
	if err := json.Unmarshal(data, &list); err == nil {
		*h = list
		return nil
	}
	var envelope struct {
		Chats *[]model.ChatSummary `json:"chats"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Chats == nil {
		return fmt.Errorf("history: missing chats")
	}
	*h = *envelope.Chats
	return nil
}

func (h historyList) Validate() error {
	return model.ValidateSummaries(h)
}

// History lists the active (non-archived) chats.
func (c *Client) History(ctx context.Context) ([]model.ChatSummary, error) {
	var out historyList
	r, _ := c.jsonRequest("history", http.MethodGet, "/chat/history", nil)
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = historyList{}
	}
	return out, nil
}

// Chat fetches one chat with its full message thread.
func (c *Client) Chat(ctx context.Context, id string) (model.Chat, error) {
	var out model.Chat
	if id == "" {
		return out, Validationf("chat", "chat id is required")
	}
	r, _ := c.jsonRequest("chat", http.MethodGet, chatPath(id), nil)
	err := c.do(ctx, r, &out)
	return out, err
}

// Upload sends a document to start a new chat. The file is read from path.
func (c *Client) Upload(ctx context.Context, path string) (model.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.UploadResult{}, &Error{Kind: KindValidation, Op: "upload", Message: "cannot read file", Err: err}
	}
	defer f.Close()
	return c.UploadReader(ctx, filepath.Base(path), f)
}

// UploadReader sends a document read from r under the given file name.
func (c *Client) UploadReader(ctx context.Context, name string, r io.Reader) (model.UploadResult, error) {
	var out model.UploadResult

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(UploadField, name)
	if err != nil {
		return out, &Error{Kind: KindValidation, Op: "upload", Message: "could not encode upload", Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return out, &Error{Kind: KindValidation, Op: "upload", Message: "cannot read file", Err: err}
	}
	if err := mw.Close(); err != nil {
		return out, &Error{Kind: KindValidation, Op: "upload", Message: "could not encode upload", Err: err}
	}

	req := request{
		op:          "upload",
		method:      http.MethodPost,
		path:        "/chat/upload",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		timeout:     c.uploadTimeout,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return out, err
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "upload was not accepted"
		}
		return out, &Error{Kind: KindServerFailure, Op: "upload", Message: msg}
	}
	return out, nil
}

type titleRequest struct {
	Title string `json:"title"`
}

// RenameChat sets a chat's title.
func (c *Client) RenameChat(ctx context.Context, id, title string) error {
	r, err := c.jsonRequest("rename", http.MethodPut, chatPath(id)+"/title", titleRequest{Title: title})
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

// DeleteChat deletes one chat.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	r, _ := c.jsonRequest("delete", http.MethodDelete, chatPath(id), nil)
	return c.do(ctx, r, nil)
}

// DeleteAllChats deletes every chat of the user.
func (c *Client) DeleteAllChats(ctx context.Context) error {
	r, _ := c.jsonRequest("delete-all", http.MethodPost, "/chat/delete-all", nil)
	return c.do(ctx, r, nil)
}

// ArchiveChat archives one chat; it no longer appears in History.
func (c *Client) ArchiveChat(ctx context.Context, id string) error {
	r, _ := c.jsonRequest("archive", http.MethodPost, chatPath(id)+"/archive", nil)
	return c.do(ctx, r, nil)
}

// ArchiveAllChats archives every chat of the user.
func (c *Client) ArchiveAllChats(ctx context.Context) error {
	r, _ := c.jsonRequest("archive-all", http.MethodPost, "/chat/archive-all", nil)
	return c.do(ctx, r, nil)
}

func chatPath(id string) string {
	return "/chat/" + url.PathEscape(id)
}
