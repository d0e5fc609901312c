// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for vault-gate.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON or
// TOML file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//
// Every variable is additionally prefixed with [EnvPrefix].
type StructuredConfig struct {
	// App holds application-level settings such as the at-rest master key.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the preference database and the
	// media vault directory.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds configuration for background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// ConfigFilePath is the optional path to a JSON or TOML configuration
	// file. The format is chosen by extension (".toml" selects TOML, anything
	// else is read as JSON).
	// Env: VAULTGATE_CONFIG, flags: -c / -config.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// MasterKey is the passphrase from which the at-rest encryption key of the
	// preference store is derived. Must be kept confidential.
	// Env: VAULTGATE_APP_MASTER_KEY
	MasterKey string `env:"MASTER_KEY"`

	// LogFile is the path of the JSON log file written by the terminal driver.
	// Env: VAULTGATE_APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// Share marks a launch triggered by an external share action. The access
	// window is reported against the share entry path.
	// Env: VAULTGATE_APP_SHARE, flag: -share
	Share bool `env:"SHARE"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the preference database settings.
	DB DB `envPrefix:"DB_"`

	// Media holds the media vault settings.
	Media Media `envPrefix:"MEDIA_"`
}

// DB holds connection settings for the SQLite preference database.
type DB struct {
	// DSN is the SQLite database file path. ":memory:" selects the volatile
	// in-memory store.
	// Env: VAULTGATE_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Media holds file-system settings for the protected media collection.
type Media struct {
	// VaultDir is the directory whose files are erased when the vault is wiped.
	// Env: VAULTGATE_STORAGE_MEDIA_VAULT_DIR
	VaultDir string `env:"VAULT_DIR"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// LockoutPollInterval is the period of the lockout countdown poll.
	// Env: VAULTGATE_WORKERS_LOCKOUT_POLL_INTERVAL
	LockoutPollInterval time.Duration `env:"LOCKOUT_POLL_INTERVAL"`

	// AuditPruneInterval is the period of the audit log age pruning.
	// Env: VAULTGATE_WORKERS_AUDIT_PRUNE_INTERVAL
	AuditPruneInterval time.Duration `env:"AUDIT_PRUNE_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources in the following priority order (first non-zero value
// wins):
//  1. Environment variables
//  2. Command-line flags (args, usually os.Args[1:])
//  3. Config file (path resolved from sources 1 and 2)
//
// Zero values left after merging are replaced with defaults.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withFile().
		build()
}
