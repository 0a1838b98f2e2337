// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for chatwithdata.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"io"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdWhoami
	CmdResetPassword
	CmdChats
	CmdUpload
	CmdAccount
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name used in JSON responses.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdSignup:
		return "signup"
	case CmdLogout:
		return "logout"
	case CmdWhoami:
		return "whoami"
	case CmdResetPassword:
		return "reset-password"
	case CmdChats:
		return "chats"
	case CmdUpload:
		return "upload"
	case CmdAccount:
		return "account"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool   // Output in JSON format
	Verbose    bool   // Mirror the log file on stderr
	ConfigPath string // --config override
	APIURL     string // --api-url override

	// Unknown is set when the first word was not a command
	Unknown string

	// Raw args (remaining after the command word)
	Raw []string
}

const usageText = `chatwithdata - chat with your documents from the terminal

Usage:
  chatwithdata                       Start the TUI (default)
  chatwithdata login [--email E] [--password P]
  chatwithdata signup [--name N] [--email E] [--password P]
  chatwithdata logout                End the session
  chatwithdata whoami                Show session status
  chatwithdata reset-password [--email E]
  chatwithdata reset-password --token T [--password P] [--check]

Chats:
  chatwithdata chats [list]          List chats, newest first
  chatwithdata chats show <id>       Print a chat's messages
  chatwithdata chats rename <id> <title...>
  chatwithdata chats delete <id>     Delete a chat
  chatwithdata chats archive <id>    Archive a chat
  chatwithdata chats delete-all      Delete every chat
  chatwithdata chats archive-all     Archive every chat
    --confirm                        Skip the confirmation prompt
  chatwithdata chats export <id> [--format markdown|json] [--output PATH]

Documents:
  chatwithdata upload <file>         Start a chat from a document
                                     Supported: .txt .pptx .docx .md .pdf

Account:
  chatwithdata account delete        Delete your account
    --confirm                        Skip the confirmation prompt

Configuration:
  chatwithdata config show           Show the effective configuration
  chatwithdata config path           Print the config file path
  chatwithdata config init           Write a default config file
  chatwithdata config get <key>      Print one value (e.g. api.base_url)
  chatwithdata config set <key> <value>

Global Flags:
  --json           Output in JSON format
  -v, --verbose    Mirror log output on stderr
  --config PATH    Use an alternate config file
  --api-url URL    Override api.base_url

Examples:
  chatwithdata login --email demo@example.com
  chatwithdata upload ./report.pdf
  chatwithdata chats show 42 --json
  chatwithdata chats delete-all --confirm

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "chatwithdata version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments (without the program name) and
// returns the command and args.
func Parse(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	parsedArgs.Raw = remaining[1:]

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "login", "signin":
		return CmdLogin, parsedArgs
	case "signup", "register":
		return CmdSignup, parsedArgs
	case "logout", "signout":
		return CmdLogout, parsedArgs
	case "whoami", "status":
		return CmdWhoami, parsedArgs
	case "reset-password", "forgot-password":
		return CmdResetPassword, parsedArgs
	case "chats", "chat", "history":
		return CmdChats, parsedArgs
	case "upload":
		return CmdUpload, parsedArgs
	case "account":
		return CmdAccount, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Unknown = remaining[0]
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--json":
			parsedArgs.JSON = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		case "--api-url":
			if i+1 < len(args) {
				i++
				parsedArgs.APIURL = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			case strings.HasPrefix(arg, "--api-url="):
				parsedArgs.APIURL = strings.TrimPrefix(arg, "--api-url=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}
