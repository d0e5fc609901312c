package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// KeyHasher provides keyed HMAC-SHA256 hashing of preference key names, so
// that the persisted store does not reveal which setting a row holds.
//
// Hash instances are pooled per hasher to avoid repeated allocations on the
// hot read path.
type KeyHasher struct {
	pool sync.Pool
}

// NewKeyHasher initializes a pool of HMAC-SHA256 hashers configured with
// hashKey.
//
// Example usage:
//
//	h := utils.NewKeyHasher(subkey)
//	row := h.HashKey("vault_pin")
func NewKeyHasher(hashKey []byte) *KeyHasher {
	key := append([]byte(nil), hashKey...)
	return &KeyHasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Hash computes an HMAC-SHA256 signature over data using a pooled hasher.
func (k *KeyHasher) Hash(data []byte) []byte {
	h := k.pool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	k.pool.Put(h)

	return sum
}

// HashKey returns the hex-encoded HMAC of a key name.
func (k *KeyHasher) HashKey(name string) string {
	return hex.EncodeToString(k.Hash([]byte(name)))
}

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// Unlike KeyHasher, this function creates a new HMAC instance on each call.
// Suitable for one-off hashing.
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}
