package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewSecureToken generates a single-use secondary token (password reset,
// account verification). The plain value goes to the user; only the SHA-256
// digest is ever persisted.
func NewSecureToken() (plain string, hashed string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(b)
	return plain, HashToken(plain), nil
}

// HashToken returns the hex SHA-256 digest of a plain token. Presented
// tokens are re-hashed and compared against the stored digest; plaintext
// values are never compared directly.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
