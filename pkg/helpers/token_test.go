package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSecureToken(t *testing.T) {
	plain, hashed, err := NewSecureToken()
	require.NoError(t, err)
	require.Len(t, plain, 64)  // 32 random bytes, hex
	require.Len(t, hashed, 64) // sha256 digest, hex
	require.NotEqual(t, plain, hashed)

	// Re-hashing the plain token reproduces the stored digest.
	require.Equal(t, hashed, HashToken(plain))
}

func TestNewSecureTokenUnique(t *testing.T) {
	p1, h1, err := NewSecureToken()
	require.NoError(t, err)
	p2, h2, err := NewSecureToken()
	require.NoError(t, err)

	require.NotEqual(t, p1, p2)
	require.NotEqual(t, h1, h2)
	require.NotEqual(t, h1, HashToken(p2))
}
