// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatwithdata.
//
// Configuration is read from a TOML file, with defaults for every missing
// value, a .env file in the working directory, and environment overrides
// applied last.
//
// # Key Types
//
//   - Config: the complete configuration
//   - APIConfig, AuthConfig, LogConfig, UIConfig: per-section settings
//   - ValidateErrors: field-level validation failures
//
// # Usage
//
//	cfg, err := config.Load("")          // ~/.chatwithdata/config.toml
//	cfg, err := config.Load("/tmp/x.toml")
//	err = config.SaveTOML(cfg, path)
//
// # Environment Variables
//
//   - CHATWITHDATA_API_URL (or API_BASE_URL): api.base_url
//   - CHATWITHDATA_TIMEOUT: api.timeout_secs
//   - CHATWITHDATA_LOG_LEVEL: log.level
//   - CHATWITHDATA_THEME: ui.theme
//   - CHATWITHDATA_DEMO_LOGIN: auth.demo_login
//   - CHATWITHDATA_CREDENTIALS: auth.credential_path
package config
