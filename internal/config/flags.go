package config

import (
	"flag"
	"fmt"
	"time"
)

// ParseFlags parses the configuration flags found in args.
//
// Flags:
//
//	-d database file path (":memory:" for a volatile store)
//	-vault-dir media vault directory
//	-master-key at-rest encryption passphrase
//	-log-file log file path
//	-share enter through the share path
//	-c/-config JSON or TOML config file path
//	-lockout-poll-interval lockout countdown period (e.g. "1s")
//	-audit-prune-interval audit log pruning period (e.g. "1h")
func ParseFlags(args []string) (*StructuredConfig, error) {
	var databaseDSN string
	var vaultDir string
	var masterKey string
	var logFile string
	var share bool
	var configPath string
	var lockoutPollInterval time.Duration
	var auditPruneInterval time.Duration

	fs := flag.NewFlagSet("vaultgate", flag.ContinueOnError)
	fs.StringVar(&databaseDSN, "d", "", "Database file path")
	fs.StringVar(&vaultDir, "vault-dir", "", "Media vault directory")
	fs.StringVar(&masterKey, "master-key", "", "At-rest encryption passphrase")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.BoolVar(&share, "share", false, "Enter the vault from a share action")
	fs.StringVar(&configPath, "c", "", "JSON or TOML config file path")
	fs.StringVar(&configPath, "config", "", "JSON or TOML config file path (alias)")
	fs.DurationVar(&lockoutPollInterval, "lockout-poll-interval", 0, "Lockout countdown period (e.g., 1s)")
	fs.DurationVar(&auditPruneInterval, "audit-prune-interval", 0, "Audit log pruning period (e.g., 1h)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			MasterKey: masterKey,
			LogFile:   logFile,
			Share:     share,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Media: Media{VaultDir: vaultDir},
		},
		Workers: Workers{
			LockoutPollInterval: lockoutPollInterval,
			AuditPruneInterval:  auditPruneInterval,
		},
		ConfigFilePath: configPath,
	}, nil
}
