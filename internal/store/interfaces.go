package store

import "context"

// PreferenceStore is a persisted key-value store of string settings.
//
// Single-key reads and writes are atomic. Read-modify-write sequences must go
// through Update, which serializes them against every other writer.
type PreferenceStore interface {
	// Get returns the value stored under key. ok is false when the key was
	// never written or has been removed.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error

	// Update runs fn as one atomic unit. Writes made through tx become
	// visible only when fn returns nil.
	Update(ctx context.Context, fn func(tx PreferenceTx) error) error

	Close() error
}

// PreferenceTx is the view of a [PreferenceStore] inside Update.
type PreferenceTx interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(keys ...string) error
}
