package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/store"
	"github.com/MKhiriev/vault-gate/models"
)

const (
	// AuditLogCapacity is the maximum number of retained entries.
	AuditLogCapacity = 100
	// AuditLogRetention is the age after which entries are pruned.
	AuditLogRetention = 30 * 24 * time.Hour
)

// auditLog keeps the entries as one JSON array under store.KeyAuditLog,
// newest first.
type auditLog struct {
	prefs store.PreferenceStore
	clock Clock
}

// NewAuditLog returns an [AuditLog] over prefs.
func NewAuditLog(prefs store.PreferenceStore, clock Clock) AuditLog {
	return &auditLog{prefs: prefs, clock: clock}
}

func (a *auditLog) Append(ctx context.Context, description string) error {
	entry := models.AuditEntry{Timestamp: a.clock.Now(), Description: description}

	err := a.prefs.Update(ctx, func(tx store.PreferenceTx) error {
		entries, err := decodeEntries(tx.Get)
		if err != nil {
			// a corrupted log cannot be repaired; start a fresh one
			logger.FromContext(ctx).Warn().Err(err).
				Str("func", "auditLog.Append").
				Msg("audit log is unreadable, starting a new one")
			entries = nil
		}

		entries = append([]models.AuditEntry{entry}, entries...)
		if len(entries) > AuditLogCapacity {
			entries = entries[:AuditLogCapacity]
		}

		return encodeEntries(tx, entries)
	})
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (a *auditLog) Prune(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-AuditLogRetention)
	removed := 0

	err := a.prefs.Update(ctx, func(tx store.PreferenceTx) error {
		entries, err := decodeEntries(tx.Get)
		if err != nil {
			return err
		}

		kept := entries[:0]
		for _, e := range entries {
			if e.Timestamp.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if removed == 0 {
			return nil
		}
		return encodeEntries(tx, kept)
	})
	if err != nil {
		return 0, fmt.Errorf("prune audit log: %w", err)
	}
	return removed, nil
}

func (a *auditLog) Entries(ctx context.Context) ([]models.AuditEntry, error) {
	entries, err := decodeEntries(storeGetter(ctx, a.prefs))
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return entries, nil
}

func (a *auditLog) Clear(ctx context.Context) error {
	if err := a.prefs.Remove(ctx, store.KeyAuditLog); err != nil {
		return fmt.Errorf("clear audit log: %w", err)
	}
	return nil
}

func decodeEntries(get getFunc) ([]models.AuditEntry, error) {
	raw, ok, err := get(store.KeyAuditLog)
	if err != nil || !ok {
		return nil, err
	}

	var entries []models.AuditEntry
	if err = json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: audit log: %w", store.ErrCorruptedValue, err)
	}
	return entries, nil
}

func encodeEntries(tx store.PreferenceTx, entries []models.AuditEntry) error {
	if len(entries) == 0 {
		return tx.Remove(store.KeyAuditLog)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return tx.Set(store.KeyAuditLog, string(raw))
}
