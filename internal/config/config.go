// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/chatwithdata-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatwithdata configuration.
type Config struct {
	// Backend connection
	API APIConfig `toml:"api"`

	// Session and credential storage
	Auth AuthConfig `toml:"auth"`

	// Log file output
	Log LogConfig `toml:"log"`

	// Terminal UI
	UI UIConfig `toml:"ui"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds every request except uploads
	TimeoutSecs int `toml:"timeout_secs"`
	// UploadTimeoutSecs bounds document uploads
	UploadTimeoutSecs int `toml:"upload_timeout_secs"`
}

// AuthConfig contains session settings.
type AuthConfig struct {
	// CredentialPath is where the bearer token is stored
	CredentialPath string `toml:"credential_path"`
	// DemoLogin enables the local demo account
	DemoLogin bool `toml:"demo_login"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Path is the log file; empty means the default location
	Path string `toml:"path"`
	// Level is one of: debug, info, warn, error
	Level string `toml:"level"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// Mouse allows the settings menu to capture clicks while open
	Mouse bool `toml:"mouse"`
}

// Timeout returns the request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// UploadTimeout returns the upload timeout.
func (c *Config) UploadTimeout() time.Duration {
	return time.Duration(c.API.UploadTimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	dir, err := DataDir()
	if err != nil {
		dir = ".chatwithdata"
	}
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8000/api",
			TimeoutSecs:       30,
			UploadTimeoutSecs: 120,
		},
		Auth: AuthConfig{
			CredentialPath: filepath.Join(dir, "credentials"),
			DemoLogin:      true,
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "logs", "chatwithdata.log"),
			Level: "info",
		},
		UI: UIConfig{
			Theme: "auto",
			Mouse: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// DataDir returns the chatwithdata data directory path.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatwithdata"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the configuration from path, or from ConfigPath when path is
// empty. A missing file is not an error. A .env file in the working
// directory is loaded first; it never overrides variables already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot access config %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.UploadTimeoutSecs == 0 {
		cfg.API.UploadTimeoutSecs = defaults.API.UploadTimeoutSecs
	}

	if cfg.Auth.CredentialPath == "" {
		cfg.Auth.CredentialPath = defaults.Auth.CredentialPath
	}
	cfg.Auth.CredentialPath = expandHome(cfg.Auth.CredentialPath)

	if cfg.Log.Path == "" {
		cfg.Log.Path = defaults.Log.Path
	}
	cfg.Log.Path = expandHome(cfg.Log.Path)
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	cfg.UI.Theme = strings.ToLower(cfg.UI.Theme)
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to path atomically with mode 0600.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# chatwithdata configuration file")
	fmt.Fprintln(&buf, "# Generated by chatwithdata - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(c)
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.API.BaseURL),
		})
	}

	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.UploadTimeoutSecs < 1 || c.API.UploadTimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "api.upload_timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 3600, got %d", c.API.UploadTimeoutSecs),
		})
	}

	if c.Auth.CredentialPath == "" {
		errs = append(errs, ValidationError{Field: "auth.credential_path", Message: "must not be empty"})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// API_BASE_URL is accepted for compatibility with the web client's
// configuration; CHATWITHDATA_API_URL takes precedence over it.
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("API_BASE_URL"); u != "" {
		c.API.BaseURL = u
	}
	if u := os.Getenv("CHATWITHDATA_API_URL"); u != "" {
		c.API.BaseURL = u
	}

	if t := os.Getenv("CHATWITHDATA_TIMEOUT"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil {
			c.API.TimeoutSecs = secs
		}
	}

	if level := os.Getenv("CHATWITHDATA_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if theme := os.Getenv("CHATWITHDATA_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if demo := os.Getenv("CHATWITHDATA_DEMO_LOGIN"); demo != "" {
		c.Auth.DemoLogin = parseBool(demo)
	}

	if path := os.Getenv("CHATWITHDATA_CREDENTIALS"); path != "" {
		c.Auth.CredentialPath = path
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value by its TOML key, e.g. "api.base_url".
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a configuration value from its string form.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %q", key, value)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		field.SetBool(parseBool(value))
	default:
		return fmt.Errorf("cannot set field: %s", key)
	}
	return nil
}

// lookup resolves a "section.key" path against the toml struct tags.
func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, fmt.Errorf("invalid key %q, expected section.key", key)
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return v, nil
}

func fieldByTag(v reflect.Value, tag string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == tag {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Keys returns all configuration keys in dot notation, sorted.
func Keys() []string {
	var keys []string
	ct := reflect.TypeOf(Config{})
	for i := 0; i < ct.NumField(); i++ {
		section := ct.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	sort.Strings(keys)
	return keys
}
