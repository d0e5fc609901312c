package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/vault-gate/internal/store"
)

// getFunc reads one preference either from a store or from inside a
// transaction.
type getFunc func(key string) (string, bool, error)

func storeGetter(ctx context.Context, prefs store.PreferenceStore) getFunc {
	return func(key string) (string, bool, error) {
		return prefs.Get(ctx, key)
	}
}

// Timestamps are persisted as Unix milliseconds.
func formatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseTime(raw string) (time.Time, error) {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func readInt(get getFunc, key string) (value int, ok bool, err error) {
	raw, ok, err := get(key)
	if err != nil || !ok {
		return 0, ok, err
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s: %w", store.ErrCorruptedValue, key, err)
	}
	return value, true, nil
}

func readBool(get getFunc, key string) (value bool, ok bool, err error) {
	raw, ok, err := get(key)
	if err != nil || !ok {
		return false, ok, err
	}
	value, err = strconv.ParseBool(raw)
	if err != nil {
		return false, true, fmt.Errorf("%w: %s: %w", store.ErrCorruptedValue, key, err)
	}
	return value, true, nil
}

func readTime(get getFunc, key string) (value time.Time, ok bool, err error) {
	raw, ok, err := get(key)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	value, err = parseTime(raw)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: %s: %w", store.ErrCorruptedValue, key, err)
	}
	return value, true, nil
}
