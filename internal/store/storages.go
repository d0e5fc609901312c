package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vault-gate/internal/config"
	"github.com/MKhiriev/vault-gate/internal/crypto"
	"github.com/MKhiriev/vault-gate/internal/logger"
)

// MemoryDSN selects the volatile in-memory preference store.
const MemoryDSN = ":memory:"

// Storages groups the storage layer into a single value that can be passed
// to the service layer.
type Storages struct {
	// Preferences is the encrypted key-value store holding credentials,
	// counters, admin settings and the audit log.
	Preferences PreferenceStore
}

// NewStorages initialises the storage layer:
//  1. opens the SQLite database at cfg.Storage.DB.DSN (or an in-memory store
//     for [MemoryDSN]) and runs pending migrations;
//  2. wraps it with at-rest encryption keyed by cfg.App.MasterKey.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, keyChain crypto.KeyChain, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	var base PreferenceStore
	if cfg.Storage.DB.DSN == MemoryDSN {
		base = NewMemoryPreferences()
	} else {
		db, err := NewConnectSQLite(ctx, cfg.Storage.DB, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err = db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		base = NewSQLitePreferences(db)
	}

	prefs, err := NewEncryptedPreferences(ctx, base, keyChain, cfg.App.MasterKey)
	if err != nil {
		base.Close()
		return nil, err
	}

	return &Storages{Preferences: prefs}, nil
}

// Close releases the underlying database.
func (s *Storages) Close() error {
	return s.Preferences.Close()
}
