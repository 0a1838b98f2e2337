// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for chatwithdata.
//
// Every command other than the TUI runs through an App, which wires the
// configuration, the credential store, the API client, the session store
// and, for chat commands, a chat controller.
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	cfg, err := cli.LoadConfig(args)
//	app := cli.NewApp(args, cfg, logger)
//	err = app.Run(ctx, cmd)
//	cli.HandleErrorAndExit(err, args.JSON)
//
// All commands support --json. Destructive commands require --confirm
// when stdin is not a terminal or JSON output is requested.
package cli
