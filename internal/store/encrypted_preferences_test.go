package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vault-gate/internal/crypto"
)

func TestEncryptedPreferences(t *testing.T) {
	runPreferenceStoreSuite(t, func(t *testing.T) PreferenceStore {
		s, err := NewEncryptedPreferences(context.Background(), NewMemoryPreferences(), crypto.NewLightKeyChain(), "master")
		require.NoError(t, err)
		return s
	})
}

func TestEncryptedPreferences_OverSQLite(t *testing.T) {
	runPreferenceStoreSuite(t, func(t *testing.T) PreferenceStore {
		s, err := NewEncryptedPreferences(context.Background(), newTestSQLite(t), crypto.NewLightKeyChain(), "master")
		require.NoError(t, err)
		return s
	})
}

func TestEncryptedPreferences_NothingInClear(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryPreferences()

	s, err := NewEncryptedPreferences(ctx, inner, crypto.NewLightKeyChain(), "master")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyVaultPin, "194733"))

	_, ok, err := inner.Get(ctx, KeyVaultPin)
	require.NoError(t, err)
	assert.False(t, ok, "key names must be hashed")

	raw := inner.(*memoryPreferences).values
	_, hasSalt := raw[keySalt]
	assert.True(t, hasSalt)
	for k, v := range raw {
		assert.NotContains(t, v, "194733", "value of %s stored in clear", k)
	}
}

func TestEncryptedPreferences_ReopenWithSameKey(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryPreferences()
	kc := crypto.NewLightKeyChain()

	s, err := NewEncryptedPreferences(ctx, inner, kc, "master")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyAdminPin, "2468"))

	reopened, err := NewEncryptedPreferences(ctx, inner, kc, "master")
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, KeyAdminPin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2468", v)
}

func TestEncryptedPreferences_WrongMasterKey(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryPreferences()
	kc := crypto.NewLightKeyChain()

	_, err := NewEncryptedPreferences(ctx, inner, kc, "master")
	require.NoError(t, err)

	_, err = NewEncryptedPreferences(ctx, inner, kc, "not-the-master")
	assert.ErrorIs(t, err, ErrWrongMasterKey)
}

func TestEncryptedPreferences_CorruptedValue(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryPreferences()

	s, err := NewEncryptedPreferences(ctx, inner, crypto.NewLightKeyChain(), "master")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyVaultPin, "194733"))

	hashed := s.(*encryptedPreferences).hasher.HashKey(KeyVaultPin)
	require.NoError(t, inner.Set(ctx, hashed, "garbage"))

	_, ok, err := s.Get(ctx, KeyVaultPin)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCorruptedValue)
}
