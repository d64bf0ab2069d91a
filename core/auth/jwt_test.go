package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("access-secret", 3600, "confirm-secret", 900)

	signed, exp, err := m.GenerateAccessToken("token-id-123")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.Greater(t, exp, time.Now().Unix())

	subject, err := m.ParseAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "token-id-123", subject)
}

func TestConfirmationTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("access-secret", 3600, "confirm-secret", 900)

	signed, _, err := m.GenerateConfirmationToken("user-id-456")
	require.NoError(t, err)

	subject, err := m.ParseConfirmationToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-id-456", subject)
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("access-secret", 3600, "confirm-secret", 900)

	access, _, err := m.GenerateAccessToken("token-id")
	require.NoError(t, err)
	confirm, _, err := m.GenerateConfirmationToken("user-id")
	require.NoError(t, err)

	_, err = m.ParseConfirmationToken(access)
	assert.Error(t, err)
	_, err = m.ParseAccessToken(confirm)
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("access-secret", 3600, "confirm-secret", 900)
	other := NewJWTManager("different-secret", 3600, "confirm-secret", 900)

	signed, _, err := m.GenerateAccessToken("token-id")
	require.NoError(t, err)

	_, err = other.ParseAccessToken(signed)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("access-secret", -60, "confirm-secret", 900)

	signed, _, err := m.GenerateAccessToken("token-id")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(signed)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewJWTManager("access-secret", 3600, "confirm-secret", 900)

	_, err := m.ParseAccessToken("not.a.jwt")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2!", hash)

	assert.True(t, VerifyPassword("hunter2!", hash))
	assert.False(t, VerifyPassword("hunter3!", hash))
}
