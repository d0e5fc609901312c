// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of the salt produced by GenerateSalt.
	SaltSize = 16
	// KeySize is the length of every derived key (AES-256).
	KeySize = 32
)

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. tests vs. devices).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
}

// NewKeyChain constructs a [KeyChain] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
func NewKeyChain() KeyChain {
	return &keyChain{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
	}
}

// NewLightKeyChain returns a [KeyChain] with a small memory cost, intended
// for tests and in-memory stores.
func NewLightKeyChain() KeyChain {
	return &keyChain{
		argonTime:    1,
		argonMemory:  1024,
		argonThreads: 1,
	}
}

func (k *keyChain) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func (k *keyChain) DeriveKey(masterKey string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(masterKey),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		KeySize,
	)
}

// DeriveSubkey computes SHA-256(key ‖ label).
func (k *keyChain) DeriveSubkey(key []byte, label string) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write([]byte(label))
	return h.Sum(nil)
}
