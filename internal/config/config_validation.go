// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Default values applied by [StructuredConfig.applyDefaults].
const (
	DefaultDSN                 = "vaultgate.db"
	DefaultVaultDir            = "vault"
	DefaultLogFile             = "vaultgate.log"
	DefaultLockoutPollInterval = time.Second
	DefaultAuditPruneInterval  = time.Hour
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = DefaultDSN
	}
	if cfg.Storage.Media.VaultDir == "" {
		cfg.Storage.Media.VaultDir = DefaultVaultDir
	}
	if cfg.App.LogFile == "" {
		cfg.App.LogFile = DefaultLogFile
	}
	if cfg.Workers.LockoutPollInterval == 0 {
		cfg.Workers.LockoutPollInterval = DefaultLockoutPollInterval
	}
	if cfg.Workers.AuditPruneInterval == 0 {
		cfg.Workers.AuditPruneInterval = DefaultAuditPruneInterval
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.MasterKey == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" || cfg.Storage.Media.VaultDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.LockoutPollInterval < 0 || cfg.Workers.AuditPruneInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
