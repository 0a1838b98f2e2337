// chatwithdata - a terminal client for chatting with your documents.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jeranaias/chatwithdata-tui/internal/cli"
	"github.com/jeranaias/chatwithdata-tui/internal/config"
	"github.com/jeranaias/chatwithdata-tui/internal/logging"
	"github.com/jeranaias/chatwithdata-tui/internal/storage"
	"github.com/jeranaias/chatwithdata-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// Parse CLI arguments
	cmd, args := cli.Parse(os.Args[1:])

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		// Help, version and config repair work without a valid file.
		switch cmd {
		case cli.CmdHelp, cli.CmdVersion, cli.CmdConfig:
			cfg = config.Default()
		default:
			cli.HandleErrorAndExit(err, args.JSON)
		}
	}

	logger := openLogger(cfg, args.Verbose && cmd != cli.CmdTUI)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := cli.NewApp(args, cfg, logger.Logger)

	if cmd == cli.CmdTUI {
		if err := runTUI(ctx, a); err != nil {
			logger.Error("tui exited with error", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			logger.Close()
			os.Exit(1)
		}
		return
	}

	if err := a.Run(ctx, cmd); err != nil {
		logger.Close()
		cli.HandleErrorAndExit(err, args.JSON)
	}
}

// runTUI starts the terminal UI over the App's session and client.
func runTUI(ctx context.Context, a *cli.App) error {
	if !cli.IsTTY() {
		return fmt.Errorf("the terminal UI needs an interactive terminal; see 'chatwithdata help' for commands")
	}

	watcher, err := storage.NewWatcher(a.Config.Auth.CredentialPath, 0, a.Logger.Named("watcher"))
	if err != nil {
		// Cross-process sync is lost but the UI still works.
		a.Logger.Warn("credential watcher unavailable", zap.Error(err))
		watcher = nil
	} else {
		defer watcher.Close()
	}

	return app.Run(ctx, app.Options{
		Config:  a.Config,
		Logger:  a.Logger.Named("tui"),
		Session: a.Session,
		Client:  a.Client,
		Watcher: watcher,
	})
}

// openLogger opens the log file. --verbose mirrors entries to stderr for
// CLI commands; the TUI owns the terminal, so it only writes the file.
func openLogger(cfg *config.Config, console bool) *logging.Logger {
	logger, err := logging.New(logging.Options{
		Path:    cfg.Log.Path,
		Level:   cfg.Log.Level,
		Console: console,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return logging.Nop()
	}
	return logger
}
