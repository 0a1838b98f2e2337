// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Session commands for chatwithdata.
//
// Commands:
//   login               Sign in and store the credential
//   signup              Create an account and sign in
//   logout              Remove the stored credential
//   whoami              Show session status
//   reset-password      Request password reset instructions
//
// Examples:
//   chatwithdata login --email you@example.com
//   chatwithdata signup --name "Ada" --email ada@example.com
//   chatwithdata whoami --json
//
// Missing values are prompted for; passwords are never echoed.

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
	"github.com/jeranaias/chatwithdata-tui/internal/session"
	"github.com/jeranaias/chatwithdata-tui/internal/storage"
)

// Success messages shown after session changes.
const (
	MsgWelcomeBack    = session.MsgWelcomeBack
	MsgAccountCreated = session.MsgAccountCreated
	MsgResetSent      = session.MsgResetSent
	MsgPasswordSet    = session.MsgPasswordSet
	MsgTokenValid     = "Reset token is valid."
	MsgLoggedOut      = "Logged out."
)

// =============================================================================
// LOGIN / SIGNUP
// =============================================================================

func (a *App) handleLogin(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw)

	email, err := a.valueOrPrompt(args.Flag("email"), "Email: ", false)
	if err != nil {
		return err
	}
	password, err := a.valueOrPrompt(args.Flag("password"), "Password: ", true)
	if err != nil {
		return err
	}

	if err := a.Session.Login(ctx, email, password); err != nil {
		return err
	}
	return a.emitSession("login", MsgWelcomeBack)
}

func (a *App) handleSignup(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw)

	name, err := a.valueOrPrompt(args.Flag("name"), "Name: ", false)
	if err != nil {
		return err
	}
	email, err := a.valueOrPrompt(args.Flag("email"), "Email: ", false)
	if err != nil {
		return err
	}
	password, err := a.valueOrPrompt(args.Flag("password"), "Password: ", true)
	if err != nil {
		return err
	}

	if err := a.Session.Signup(ctx, name, email, password); err != nil {
		return err
	}
	return a.emitSession("signup", MsgAccountCreated)
}

// valueOrPrompt returns value, or asks for it when empty. An empty answer
// is passed through so the session store reports the missing field.
func (a *App) valueOrPrompt(value, prompt string, secret bool) (string, error) {
	if value != "" || a.Prompter == nil {
		return value, nil
	}
	if secret {
		return a.Prompter.PromptPassword(prompt)
	}
	return a.Prompter.Prompt(prompt)
}

func (a *App) emitSession(command, message string) error {
	data := a.sessionData()
	return a.emit(command, data, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s\n", okMark(), message)
		if data.User != nil {
			fmt.Fprintf(w, "Signed in as %s\n", describeUser(*data.User))
		}
		if data.Demo {
			fmt.Fprintln(w, DimStyle.Render("Demo session: chats stay local and server actions are unavailable."))
		}
	})
}

func (a *App) sessionData() SessionData {
	user, ok := a.Session.User()
	if !ok {
		return SessionData{}
	}
	token, _ := a.Creds.Token()
	return SessionData{
		Authenticated: true,
		User:          &user,
		Demo:          token == session.DemoToken,
	}
}

func describeUser(u model.User) string {
	if u.Email == "" {
		return u.DisplayName()
	}
	return fmt.Sprintf("%s <%s>", u.DisplayName(), u.Email)
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

func (a *App) handleLogout() error {
	a.Session.Logout()
	return a.emit("logout", SessionData{}, func(w io.Writer) {
		fmt.Fprintln(w, MsgLoggedOut)
	})
}

func (a *App) handleWhoami() error {
	data := a.sessionData()
	return a.emit("whoami", data, func(w io.Writer) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, TitleStyle.Render("Session"))
		fmt.Fprintln(w, RenderSeparator())

		if !data.Authenticated {
			fmt.Fprintf(w, "  %s%s\n", RenderLabel("Status:"), ErrorStyle.Render("NOT LOGGED IN"))
			fmt.Fprintln(w)
			fmt.Fprintln(w, DimStyle.Render("  Run 'chatwithdata login' to sign in"))
			fmt.Fprintln(w)
			return
		}

		fmt.Fprintf(w, "  %s%s\n", RenderLabel("Status:"), SuccessStyle.Render("LOGGED IN"))
		fmt.Fprintf(w, "  %s%s\n", RenderLabel("Name:"), ValueStyle.Render(data.User.DisplayName()))
		if data.User.Email != "" {
			fmt.Fprintf(w, "  %s%s\n", RenderLabel("Email:"), ValueStyle.Render(data.User.Email))
		}
		if data.User.ID != "" {
			fmt.Fprintf(w, "  %s%s\n", RenderLabel("User ID:"), ValueStyle.Render(data.User.ID))
		}
		if data.Demo {
			fmt.Fprintf(w, "  %s%s\n", RenderLabel("Mode:"), WarningStyle.Render("demo"))
		}
		fmt.Fprintf(w, "  %s%s\n", RenderLabel("Server:"), DimStyle.Render(a.Client.BaseURL()))
		if fs, ok := a.Creds.(*storage.FileStore); ok {
			fmt.Fprintf(w, "  %s%s\n", RenderLabel("Credentials:"), DimStyle.Render(fs.Path()))
		}
		fmt.Fprintln(w)
	})
}

// =============================================================================
// RESET PASSWORD
// =============================================================================

func (a *App) handleResetPassword(ctx context.Context) error {
	args := NewArgParser(a.Args.Raw, "check")
	if token := args.Flag("token"); token != "" {
		return a.completeReset(ctx, args, token)
	}

	email, err := a.valueOrPrompt(args.Flag("email"), "Email: ", false)
	if err != nil {
		return err
	}
	if err := a.Session.RequestPasswordReset(ctx, email); err != nil {
		return err
	}
	return a.emit("reset-password", MessageData{Message: MsgResetSent}, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s\n", okMark(), MsgResetSent)
	})
}

// completeReset handles reset-password --token: --check only verifies the
// token, otherwise the new password is set.
func (a *App) completeReset(ctx context.Context, args *ArgParser, token string) error {
	message := MsgTokenValid
	if args.BoolFlag("check") {
		if err := a.Session.VerifyResetToken(ctx, token); err != nil {
			return err
		}
	} else {
		password, err := a.valueOrPrompt(args.Flag("password"), "New password: ", true)
		if err != nil {
			return err
		}
		if err := a.Session.CompletePasswordReset(ctx, token, password); err != nil {
			return err
		}
		message = MsgPasswordSet
	}
	return a.emit("reset-password", MessageData{Message: message}, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s\n", okMark(), message)
	})
}
