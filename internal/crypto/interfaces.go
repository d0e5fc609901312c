package crypto

// KeyChain derives the at-rest key of the preference store.
//
// Scheme:
//
//	Salt = GenerateSalt()                        (first run, stored in clear)
//	Key  = DeriveKey(masterKey, Salt)            (every start, memory only)
//	Sub  = DeriveSubkey(Key, label)              (one per purpose)
type KeyChain interface {
	// GenerateSalt returns 16 random bytes. The salt is not a secret.
	GenerateSalt() ([]byte, error)

	// DeriveKey stretches the master key with Argon2id.
	DeriveKey(masterKey string, salt []byte) []byte

	// DeriveSubkey domain-separates key material for a named purpose
	// (value sealing, key-name hashing).
	DeriveSubkey(key []byte, label string) []byte
}

// ValueCipher seals single preference values.
type ValueCipher interface {
	// Seal encrypts plaintext and returns base64(nonce || ciphertext).
	Seal(plaintext []byte) (string, error)

	// Open reverses Seal. A wrong key or a tampered blob yields ErrDecrypt.
	Open(sealed string) ([]byte, error)
}
