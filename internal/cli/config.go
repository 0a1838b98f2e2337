// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration loading and the "config" command.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Show the effective configuration
//   path                Print the config file path
//   init [--force]      Write a default config file
//   get <key>           Print one value
//   set <key> <value>   Change one value in the config file

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/chatwithdata-tui/internal/config"
)

const configUsage = "chatwithdata config [show|path|init|get <key>|set <key> <value>]"

// LoadConfig loads the configuration named by --config (or the default
// path) and applies the --api-url override.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --api-url: %w", err)
		}
	}
	return cfg, nil
}

// configPath returns the file the config command operates on.
func (a *App) configPath() (string, error) {
	if a.Args.ConfigPath != "" {
		return a.Args.ConfigPath, nil
	}
	return config.ConfigPath()
}

func (a *App) handleConfig() error {
	args := NewArgParser(a.Args.Raw, "force", "json")

	path, err := a.configPath()
	if err != nil {
		return err
	}

	switch sub := args.Subcommand(); sub {
	case "", "show":
		return a.handleConfigShow(path)
	case "path":
		return a.emit("config path", MessageData{Message: path}, func(w io.Writer) {
			fmt.Fprintln(w, path)
		})
	case "init":
		return a.handleConfigInit(path, args.BoolFlag("force"))
	case "get":
		key := args.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "chatwithdata config get api.base_url")
		}
		value, err := a.Config.Get(key)
		if err != nil {
			return &ValidationError{Field: "key", Value: key, Reason: err.Error()}
		}
		return a.emit("config get", map[string]any{key: value}, func(w io.Writer) {
			fmt.Fprintln(w, value)
		})
	case "set":
		return a.handleConfigSet(path, args.Positional(1), args.Positional(2))
	default:
		return ErrUnknownSubcommand("config", sub, configUsage)
	}
}

func (a *App) handleConfigShow(path string) error {
	values := make(map[string]any)
	for _, key := range config.Keys() {
		v, err := a.Config.Get(key)
		if err == nil {
			values[key] = v
		}
	}

	return a.emit("config show", ConfigData{Path: path, Values: values}, func(w io.Writer) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, TitleStyle.Render("Configuration"))
		fmt.Fprintf(w, "  %s%s\n", RenderLabel("File:", 24), DimStyle.Render(path))
		fmt.Fprintln(w, RenderSeparator())
		for _, key := range config.Keys() {
			fmt.Fprintf(w, "  %s%s\n", RenderLabel(key, 24), ValueStyle.Render(fmt.Sprint(values[key])))
		}
		fmt.Fprintln(w)
	})
}

func (a *App) handleConfigInit(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return NewCommandError("config", "init", "config file already exists (use --force to overwrite)", nil)
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return NewCommandError("config", "init", "could not write config", err)
	}
	return a.emit("config init", MessageData{Message: path}, func(w io.Writer) {
		fmt.Fprintf(w, "%s Wrote %s\n", okMark(), path)
	})
}

// handleConfigSet edits the file itself, so environment overrides in
// effect for this run are not persisted.
func (a *App) handleConfigSet(path, key, value string) error {
	if key == "" || value == "" {
		return ErrMissingArgument("key/value", "chatwithdata config set ui.theme dark")
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return NewCommandError("config", "set", "could not read config", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return NewCommandError("config", "set", "could not read config", err)
	}

	if err := cfg.Set(key, value); err != nil {
		return &ValidationError{Field: "key", Value: key, Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return &ValidationError{Field: key, Value: value, Reason: err.Error()}
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "set", "could not write config", err)
	}

	return a.emit("config set", map[string]string{key: value}, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s = %s\n", okMark(), key, value)
	})
}
