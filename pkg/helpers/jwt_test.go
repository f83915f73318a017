package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTSignAndParse(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, exp, err := m.Sign("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "user-1", claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestJWTParseWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	token, _, err := m.Sign("user-1")
	require.NoError(t, err)

	other := NewJWTManager("other-secret", time.Hour)
	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestJWTParseExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	token, _, err := m.Sign("user-1")
	require.NoError(t, err)

	_, err = m.Parse(token)
	require.Error(t, err)
}

func TestJWTParseMalformed(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	_, err := m.Parse("not.a.token")
	require.Error(t, err)
	_, err = m.Parse("")
	require.Error(t, err)
}
