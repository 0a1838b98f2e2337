// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chats_cmd.go - Chat history commands for chatwithdata.
//
// Command: chats [subcommand]
// Aliases: chat, history
//
// Subcommands:
//   list (default)        List chats, newest first
//   show <id>             Print a chat's messages
//   rename <id> <title>   Rename a chat
//   delete <id>           Delete a chat
//   archive <id>          Archive a chat
//   delete-all            Delete every chat
//   archive-all           Archive every chat
//   export <id>           Write a chat to a Markdown or JSON file
//
// Flags:
//   --confirm             Skip confirmation prompts
//   --format F            Export format: markdown (default) or json
//   --output PATH         Export file (default: generated name in cwd)
//   --json                Output in JSON format

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/chatwithdata-tui/internal/chats"
	"github.com/jeranaias/chatwithdata-tui/internal/export"
	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/util"
)

const chatsUsage = "chatwithdata chats [list|show <id>|rename <id> <title>|delete <id>|archive <id>|delete-all|archive-all|export <id>]"

// handleChats handles the "chats" command with various subcommands.
func (a *App) handleChats(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw, "confirm", "json")
	sub := args.Subcommand()

	if err := a.requireAuth("chats"); err != nil {
		return err
	}
	ctrl, conf := a.controller(args.BoolFlag("confirm"))

	switch sub {
	case "", "list", "ls":
		return a.handleChatsList(ctx, ctrl)
	case "show", "open":
		id := args.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", "chatwithdata chats show <id>")
		}
		return a.handleChatsShow(ctx, ctrl, id)
	case "rename", "title":
		id := args.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", "chatwithdata chats rename <id> <title...>")
		}
		if err := ctrl.Rename(ctx, id, JoinPositionalArgs(args, 2)); err != nil {
			return err
		}
		return a.emitDone("chats rename", chats.MsgRenamed, id)
	case "delete", "rm":
		return a.removeChat(ctx, args, conf, ctrl.Delete, chats.MsgDeleted)
	case "archive":
		return a.removeChat(ctx, args, conf, ctrl.Archive, chats.MsgArchived)
	case "delete-all":
		return a.finishConfirmed(conf, ctrl.DeleteAll(ctx), "chats delete-all", chats.MsgDeletedAll, "")
	case "archive-all":
		return a.finishConfirmed(conf, ctrl.ArchiveAll(ctx), "chats archive-all", chats.MsgArchivedAll, "")
	case "export":
		id := args.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", exportUsage)
		}
		return a.handleChatsExport(ctx, ctrl, id, args.Flag("format"), args.Flag("output"))
	default:
		return ErrUnknownSubcommand("chats", sub, chatsUsage)
	}
}

func (a *App) removeChat(ctx context.Context, args *ArgParser, conf *cliConfirmer,
	remove func(context.Context, string) error, okMsg string) error {
	id := args.Positional(1)
	if id == "" {
		return ErrMissingArgument("id", fmt.Sprintf("chatwithdata chats %s <id> [--confirm]", args.Subcommand()))
	}
	return a.finishConfirmed(conf, remove(ctx, id), "chats "+args.Subcommand(), okMsg, id)
}

// finishConfirmed turns the outcome of a confirmed mutation into output.
func (a *App) finishConfirmed(conf *cliConfirmer, err error, command, okMsg, id string) error {
	if err != nil {
		return err
	}
	if conf.err != nil {
		return conf.err
	}
	if conf.declined {
		if !a.Args.JSON {
			ShowCancellationMessage(a.Stdout)
		}
		return nil
	}
	return a.emitDone(command, okMsg, id)
}

// emitDone reports a completed mutation. The human message was already
// printed by the controller's notifier.
func (a *App) emitDone(command, message, id string) error {
	return a.emit(command, MessageData{Message: message, ChatID: id}, func(io.Writer) {})
}

// =============================================================================
// LIST / SHOW
// =============================================================================

func (a *App) handleChatsList(ctx context.Context, ctrl *chats.Controller) error {
	history, err := ctrl.Refresh(ctx)
	if err != nil {
		return err
	}

	return a.emit("chats list", history, func(w io.Writer) {
		if len(history) == 0 {
			fmt.Fprintln(w, DimStyle.Render("No chats yet."))
			return
		}
		writeChatTable(w, history, time.Now(), GetTerminalWidth())
	})
}

// writeChatTable prints one row per chat: id, title, preview, time.
func writeChatTable(w io.Writer, history []model.ChatSummary, now time.Time, width int) {
	idWidth := 4
	for _, c := range history {
		if n := util.StringWidth(c.ID); n > idWidth {
			idWidth = n
		}
	}
	const titleWidth, timeWidth = 28, 11
	previewWidth := width - idWidth - titleWidth - timeWidth - 6
	if previewWidth < 10 {
		previewWidth = 10
	}

	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		DimStyle.Render(util.PadRight("ID", idWidth)),
		DimStyle.Render(util.PadRight("TITLE", titleWidth)),
		DimStyle.Render(util.PadRight("LAST MESSAGE", previewWidth)),
		DimStyle.Render("WHEN"))

	for _, c := range history {
		when := ""
		if !c.Timestamp.IsZero() {
			when = c.Timestamp.Display(now)
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			util.PadRight(c.ID, idWidth),
			ValueStyle.Render(util.PadRight(util.Truncate(c.DisplayTitle(), titleWidth), titleWidth)),
			DimStyle.Render(util.PadRight(util.Truncate(util.SingleLine(c.LastMessage), previewWidth), previewWidth)),
			DimStyle.Render(when))
	}
}

func (a *App) handleChatsShow(ctx context.Context, ctrl *chats.Controller, id string) error {
	chat, err := ctrl.Select(ctx, id)
	if err != nil {
		return err
	}

	return a.emit("chats show", chat, func(w io.Writer) {
		writeThread(w, chat, a.Config.UI.Theme, GetTerminalWidth(), time.Now())
	})
}

// writeThread prints a chat oldest message first.
func writeThread(w io.Writer, chat model.Chat, theme string, width int, now time.Time) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render(chat.DisplayTitle()))

	if len(chat.Messages) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No messages yet."))
		return
	}

	for _, m := range chat.Messages {
		label := AssistantStyle.Render(m.Author().String())
		if m.IsUser {
			label = UserStyle.Render(m.Author().String())
		}
		if !m.Timestamp.IsZero() {
			label += " " + DimStyle.Render(m.Timestamp.Display(now))
		}
		fmt.Fprintln(w, label)

		if m.IsUser {
			fmt.Fprintln(w, m.Content)
		} else {
			fmt.Fprintln(w, renderMarkdown(m.Content, theme, width-4))
		}
		fmt.Fprintln(w)
	}
}

// =============================================================================
// EXPORT
// =============================================================================

const exportUsage = "chatwithdata chats export <id> [--format markdown|json] [--output PATH]"

func (a *App) handleChatsExport(ctx context.Context, ctrl *chats.Controller, id, format, output string) error {
	opts := export.DefaultOptions()
	opts.Path = output

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return &ValidationError{
			Field:   "format",
			Value:   format,
			Reason:  "unsupported export format",
			Example: exportUsage,
		}
	}

	chat, err := ctrl.Select(ctx, id)
	if err != nil {
		return err
	}

	path, err := export.ExportToFile(chat, exporter, opts)
	if err != nil {
		return NewCommandError("chats export", "export chat", "could not write the export file", err)
	}
	a.Logger.Info("chat exported", zap.String("chat_id", id), zap.String("path", path))

	data := ExportData{ChatID: id, Path: path, Format: strings.TrimPrefix(exporter.FileExtension(), ".")}
	return a.emit("chats export", data, func(w io.Writer) {
		fmt.Fprintf(w, "%s Exported %s to %s\n", okMark(), chat.DisplayTitle(), path)
	})
}
