package identity

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

// DeriveKey stretches a password with argon2id using the account's salt.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value stored server-side.
// The key itself never leaves the client.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}
