// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// upload_cmd.go - Start a chat from a document.
//
// Command: upload <file>
//
// Only the first file is sent; any others are ignored with a warning.
// Supported formats: .txt .pptx .docx .md .pdf

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeranaias/chatwithdata-tui/internal/upload"
)

func (a *App) handleUpload(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw)
	paths := args.PositionalFrom(0)
	if len(paths) == 0 {
		return ErrMissingArgument("file", "chatwithdata upload <file>  ("+upload.SupportedFormats+")")
	}
	if err := a.requireAuth("upload"); err != nil {
		return err
	}

	// Best effort; the controller reports real problems. Progress is only
	// shown for files the gate will accept.
	info, _ := upload.Inspect(paths[0])
	_, gateErr := upload.NewGate().Check(true, paths)
	if !a.Args.JSON && gateErr == nil && info.Size > 0 {
		detail := upload.HumanSize(info.Size)
		if info.Pages > 0 {
			detail += fmt.Sprintf(", %d pages", info.Pages)
		}
		fmt.Fprintf(a.Stderr, "Uploading %s (%s)...\n", info.Name, detail)
	}

	ctrl, _ := a.controller(false)
	result, err := ctrl.Upload(ctx, paths...)
	if err != nil {
		return err
	}

	data := UploadData{
		ChatID:  result.ChatID,
		Message: result.Message,
		File:    info.Name,
		Size:    info.Size,
		Pages:   info.Pages,
		Ignored: len(paths) - 1,
	}
	return a.emit("upload", data, func(w io.Writer) {
		if result.ChatID == "" {
			return
		}
		fmt.Fprintf(w, "  %s%s\n", RenderLabel("Chat ID:"), ValueStyle.Render(result.ChatID))
		fmt.Fprintln(w, DimStyle.Render("  View it with: chatwithdata chats show "+result.ChatID))
	})
}
