// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Wiring shared by every non-TUI command.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jeranaias/chatwithdata-tui/internal/api"
	"github.com/jeranaias/chatwithdata-tui/internal/chats"
	"github.com/jeranaias/chatwithdata-tui/internal/config"
	"github.com/jeranaias/chatwithdata-tui/internal/logging"
	"github.com/jeranaias/chatwithdata-tui/internal/session"
	"github.com/jeranaias/chatwithdata-tui/internal/storage"
)

// App holds the configuration, I/O and backend wiring for one CLI run.
type App struct {
	Args   Args
	Config *config.Config
	Logger *zap.Logger

	Stdout      io.Writer
	Stderr      io.Writer
	Prompter    Prompter
	Interactive bool // stdin is a terminal; confirmations may prompt

	Creds   storage.CredentialStore
	Client  *api.Client
	Session *session.Store
}

// NewApp wires an App over the credential file named by cfg.
func NewApp(args Args, cfg *config.Config, logger *zap.Logger) *App {
	logger = logging.OrNop(logger)
	a := &App{
		Args:        args,
		Config:      cfg,
		Logger:      logger,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: IsTTY(),
	}
	if a.Interactive {
		a.Prompter = TerminalPrompter{}
	} else {
		a.Prompter = NewReaderPrompter(os.Stdin, os.Stderr)
	}
	a.Wire(storage.NewFileStore(cfg.Auth.CredentialPath))
	return a
}

// Wire builds the API client and session store over creds and restores
// any stored session.
func (a *App) Wire(creds storage.CredentialStore) {
	a.Creds = creds
	a.Client = api.New(a.Config.API.BaseURL, creds,
		api.WithTimeout(a.Config.Timeout()),
		api.WithUploadTimeout(a.Config.UploadTimeout()),
		api.WithLogger(a.Logger),
		api.WithUserAgent("chatwithdata-cli/"+Version),
	)
	a.Session = session.NewStore(creds, a.Client, session.Config{
		DemoLogin: a.Config.Auth.DemoLogin,
		Logger:    a.Logger.Named("session"),
	})
	a.Session.Restore()
}

// Run executes cmd. CmdTUI is handled by the caller.
func (a *App) Run(ctx context.Context, cmd Command) error {
	a.Logger.Debug("command", zap.Stringer("cmd", cmd), zap.Strings("args", a.Args.Raw))

	switch cmd {
	case CmdLogin:
		return a.handleLogin(ctx)
	case CmdSignup:
		return a.handleSignup(ctx)
	case CmdLogout:
		return a.handleLogout()
	case CmdWhoami:
		return a.handleWhoami()
	case CmdResetPassword:
		return a.handleResetPassword(ctx)
	case CmdChats:
		return a.handleChats(ctx)
	case CmdUpload:
		return a.handleUpload(ctx)
	case CmdAccount:
		return a.handleAccount(ctx)
	case CmdConfig:
		return a.handleConfig()
	case CmdVersion:
		return a.handleVersion()
	default:
		if a.Args.Unknown != "" {
			PrintUsage(a.Stderr)
			return ErrUnknownSubcommand("chatwithdata", a.Args.Unknown, "chatwithdata help")
		}
		PrintUsage(a.Stdout)
		return nil
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// emit writes data as a JSON envelope, or runs human otherwise.
func (a *App) emit(command string, data any, human func(w io.Writer)) error {
	if a.Args.JSON {
		return NewJSONResponse(command, data).Print(a.Stdout)
	}
	human(a.Stdout)
	return nil
}

// requireAuth fails with Unauthorized when no session is stored.
func (a *App) requireAuth(op string) error {
	if a.Session.Authenticated() {
		return nil
	}
	return &api.Error{
		Kind:    api.KindUnauthorized,
		Op:      op,
		Message: "Not logged in. Run 'chatwithdata login' first.",
	}
}

// cliConfirmer routes controller confirmations through RequireConfirmation
// and remembers why a confirmation was not given.
type cliConfirmer struct {
	app      *App
	flag     bool
	err      error
	declined bool
}

func (c *cliConfirmer) Confirm(_ context.Context, prompt string) bool {
	ok, err := RequireConfirmation(c.app.Prompter, prompt, ConfirmationOptions{
		ConfirmFlag: c.flag,
		JSONMode:    c.app.Args.JSON,
		Interactive: c.app.Interactive,
	})
	if err != nil {
		c.err = err
		return false
	}
	c.declined = !ok
	return ok
}

// notify prints controller notifications. Errors are left to DisplayError
// and successes are suppressed in JSON mode, where the envelope reports them.
func (a *App) notify(level chats.Level, message string) {
	switch level {
	case chats.LevelSuccess:
		if !a.Args.JSON {
			fmt.Fprintf(a.Stdout, "%s %s\n", okMark(), message)
		}
	case chats.LevelWarning:
		fmt.Fprintf(a.Stderr, "%s %s\n", WarningStyle.Render("[WARN]"), message)
	}
}

// controller builds a chat controller for one command.
func (a *App) controller(confirmFlag bool) (*chats.Controller, *cliConfirmer) {
	conf := &cliConfirmer{app: a, flag: confirmFlag}
	ctrl := chats.New(a.Client, a.Session, chats.Options{
		Confirmer: conf,
		Notifier:  chats.NotifierFunc(a.notify),
		Logger:    a.Logger.Named("chats"),
	})
	return ctrl, conf
}
