package store

import (
	"context"
	"sync"
)

// memoryPreferences is the volatile [PreferenceStore] used for ":memory:"
// DSNs and as the in-memory fake in tests.
type memoryPreferences struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemoryPreferences returns an empty in-memory [PreferenceStore].
func NewMemoryPreferences() PreferenceStore {
	return &memoryPreferences{values: make(map[string]string)}
}

func (m *memoryPreferences) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, ErrStoreClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryPreferences) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.values[key] = value
	return nil
}

func (m *memoryPreferences) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Update stages writes in a memoryTx and applies them only if fn succeeds.
// The write lock is held for the whole call.
func (m *memoryPreferences) Update(_ context.Context, fn func(tx PreferenceTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	tx := &memoryTx{base: m.values, staged: make(map[string]*string)}
	if err := fn(tx); err != nil {
		return err
	}

	for k, v := range tx.staged {
		if v == nil {
			delete(m.values, k)
			continue
		}
		m.values[k] = *v
	}
	return nil
}

func (m *memoryPreferences) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// memoryTx overlays staged writes on the committed map. A nil staged value
// marks a removal.
type memoryTx struct {
	base   map[string]string
	staged map[string]*string
}

func (t *memoryTx) Get(key string) (string, bool, error) {
	if v, ok := t.staged[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	v, ok := t.base[key]
	return v, ok, nil
}

func (t *memoryTx) Set(key, value string) error {
	t.staged[key] = &value
	return nil
}

func (t *memoryTx) Remove(keys ...string) error {
	for _, k := range keys {
		t.staged[k] = nil
	}
	return nil
}
