package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/MKhiriev/vault-gate/internal/crypto"
	"github.com/MKhiriev/vault-gate/internal/utils"
)

const (
	labelValues   = "vault-gate/preference-values"
	labelKeyNames = "vault-gate/preference-names"
	keyCheckPlain = "vault-gate"
)

// encryptedPreferences gives any [PreferenceStore] at-rest confidentiality:
// key names are replaced by their HMAC and values are sealed with AES-GCM.
// Only the KDF salt is stored in clear.
type encryptedPreferences struct {
	inner  PreferenceStore
	cipher crypto.ValueCipher
	hasher *utils.KeyHasher
}

// NewEncryptedPreferences derives the store key from masterKey and wraps
// inner. On first use it generates the salt and a key-check value; later
// opens with a different master key fail with [ErrWrongMasterKey].
func NewEncryptedPreferences(ctx context.Context, inner PreferenceStore, keyChain crypto.KeyChain, masterKey string) (PreferenceStore, error) {
	var (
		valueCipher crypto.ValueCipher
		hasher      *utils.KeyHasher
	)

	err := inner.Update(ctx, func(tx PreferenceTx) error {
		salt, err := loadOrCreateSalt(tx, keyChain)
		if err != nil {
			return err
		}

		key := keyChain.DeriveKey(masterKey, salt)
		valueCipher, err = crypto.NewValueCipher(keyChain.DeriveSubkey(key, labelValues))
		if err != nil {
			return err
		}
		hasher = utils.NewKeyHasher(keyChain.DeriveSubkey(key, labelKeyNames))

		return verifyKeyCheck(tx, valueCipher)
	})
	if err != nil {
		return nil, fmt.Errorf("open encrypted preferences: %w", err)
	}

	return &encryptedPreferences{
		inner:  inner,
		cipher: valueCipher,
		hasher: hasher,
	}, nil
}

func loadOrCreateSalt(tx PreferenceTx, keyChain crypto.KeyChain) ([]byte, error) {
	raw, ok, err := tx.Get(keySalt)
	if err != nil {
		return nil, err
	}
	if ok {
		salt, decodeErr := hex.DecodeString(raw)
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: salt: %w", ErrCorruptedValue, decodeErr)
		}
		return salt, nil
	}

	salt, err := keyChain.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if err = tx.Set(keySalt, hex.EncodeToString(salt)); err != nil {
		return nil, err
	}
	return salt, nil
}

func verifyKeyCheck(tx PreferenceTx, valueCipher crypto.ValueCipher) error {
	sealed, ok, err := tx.Get(keyKeyCheck)
	if err != nil {
		return err
	}
	if !ok {
		sealed, err = valueCipher.Seal([]byte(keyCheckPlain))
		if err != nil {
			return err
		}
		return tx.Set(keyKeyCheck, sealed)
	}

	plain, err := valueCipher.Open(sealed)
	if err != nil || string(plain) != keyCheckPlain {
		return ErrWrongMasterKey
	}
	return nil
}

func (e *encryptedPreferences) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := e.inner.Get(ctx, e.hasher.HashKey(key))
	if err != nil || !ok {
		return "", ok, err
	}
	return e.open(key, sealed)
}

func (e *encryptedPreferences) Set(ctx context.Context, key, value string) error {
	sealed, err := e.cipher.Seal([]byte(value))
	if err != nil {
		return err
	}
	return e.inner.Set(ctx, e.hasher.HashKey(key), sealed)
}

func (e *encryptedPreferences) Remove(ctx context.Context, keys ...string) error {
	return e.inner.Remove(ctx, e.hashKeys(keys)...)
}

func (e *encryptedPreferences) Update(ctx context.Context, fn func(tx PreferenceTx) error) error {
	return e.inner.Update(ctx, func(tx PreferenceTx) error {
		return fn(&encryptedTx{store: e, inner: tx})
	})
}

func (e *encryptedPreferences) Close() error {
	return e.inner.Close()
}

func (e *encryptedPreferences) open(key, sealed string) (string, bool, error) {
	plain, err := e.cipher.Open(sealed)
	if err != nil {
		if errors.Is(err, crypto.ErrDecrypt) {
			return "", false, fmt.Errorf("%w: %s", ErrCorruptedValue, key)
		}
		return "", false, err
	}
	return string(plain), true, nil
}

func (e *encryptedPreferences) hashKeys(keys []string) []string {
	hashed := make([]string, len(keys))
	for i, k := range keys {
		hashed[i] = e.hasher.HashKey(k)
	}
	return hashed
}

type encryptedTx struct {
	store *encryptedPreferences
	inner PreferenceTx
}

func (t *encryptedTx) Get(key string) (string, bool, error) {
	sealed, ok, err := t.inner.Get(t.store.hasher.HashKey(key))
	if err != nil || !ok {
		return "", ok, err
	}
	return t.store.open(key, sealed)
}

func (t *encryptedTx) Set(key, value string) error {
	sealed, err := t.store.cipher.Seal([]byte(value))
	if err != nil {
		return err
	}
	return t.inner.Set(t.store.hasher.HashKey(key), sealed)
}

func (t *encryptedTx) Remove(keys ...string) error {
	return t.inner.Remove(t.store.hashKeys(keys)...)
}
