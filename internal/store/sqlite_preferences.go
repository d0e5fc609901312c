// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/vault-gate/internal/logger"
)

// sqlitePreferences is the SQLite-backed [PreferenceStore]. Every value lives
// in one row of the "preferences" table.
//
// mu serializes writers: Set, Remove and whole Update transactions never
// interleave, so a read-modify-write through Update cannot lose an update.
type sqlitePreferences struct {
	*DB
	mu sync.Mutex
}

// NewSQLitePreferences wraps an already migrated database.
func NewSQLitePreferences(db *DB) PreferenceStore {
	return &sqlitePreferences{DB: db}
}

func (s *sqlitePreferences) Get(ctx context.Context, key string) (string, bool, error) {
	return getPreference(ctx, s.DB.DB, key)
}

func (s *sqlitePreferences) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return setPreference(ctx, s.DB.DB, key, value)
}

func (s *sqlitePreferences) Remove(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return removePreferences(ctx, s.DB.DB, keys...)
}

func (s *sqlitePreferences) Update(ctx context.Context, fn func(tx PreferenceTx) error) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "sqlitePreferences.Update").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(&sqliteTx{ctx: ctx, q: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "sqlitePreferences.Update").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (s *sqlitePreferences) Close() error {
	return s.DB.Close()
}

type sqliteTx struct {
	ctx context.Context
	q   execQuerier
}

func (t *sqliteTx) Get(key string) (string, bool, error) {
	return getPreference(t.ctx, t.q, key)
}

func (t *sqliteTx) Set(key, value string) error {
	return setPreference(t.ctx, t.q, key, value)
}

func (t *sqliteTx) Remove(keys ...string) error {
	return removePreferences(t.ctx, t.q, keys...)
}

func getPreference(ctx context.Context, q execQuerier, key string) (string, bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetPreferenceQuery(key)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = q.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "getPreference").Msg("failed to read preference")
		return "", false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return value, true, nil
}

func setPreference(ctx context.Context, q execQuerier, key, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSetPreferenceQuery(key, value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "setPreference").Msg("failed to write preference")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func removePreferences(ctx context.Context, q execQuerier, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildRemovePreferencesQuery(keys...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "removePreferences").Int("keys", len(keys)).Msg("failed to remove preferences")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
