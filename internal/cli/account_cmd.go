// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// account_cmd.go - Account management.
//
// Command: account delete [--confirm]

package cli

import (
	"context"

	"github.com/jeranaias/chatwithdata-tui/internal/chats"
)

func (a *App) handleAccount(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw, "confirm", "json")

	switch sub := args.Subcommand(); sub {
	case "delete":
		if err := a.requireAuth("account delete"); err != nil {
			return err
		}
		ctrl, conf := a.controller(args.BoolFlag("confirm"))
		return a.finishConfirmed(conf, ctrl.DeleteAccount(ctx), "account delete", chats.MsgAccountDeleted, "")
	case "":
		return ErrMissingArgument("subcommand", "chatwithdata account delete [--confirm]")
	default:
		return ErrUnknownSubcommand("account", sub, "chatwithdata account delete [--confirm]")
	}
}
