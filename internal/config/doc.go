// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as
// the file format.
//
// Configuration is loaded from ~/.config/shutl/config.toml (or XDG equivalent
// on Linux, ~/Library/Application Support/shutl/config.toml on macOS,
// %APPDATA%\shutl\config.toml on Windows). The package resolves the scripts
// directory (SHUTL_DIR env var, then scripts_dir, then ~/.shutl) and exposes
// the env-variable prefix and default runtime used when invoking scripts.
package config
