// Package config loads runtime configuration for the DocVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c, -config or --config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a, --addr string    base URL of the DocVault API
//	-d, --db string      path of the local SQLite database
//	-t, --timeout int    per-request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8080",
//	  "db_path": "docvault.db",
//	  "request_timeout": "10s",
//	  "resend_cooldown": "30s",
//	  "log_level": "info",
//	  "register_token": "dev"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
