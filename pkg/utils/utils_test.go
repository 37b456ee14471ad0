package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("harvest-2024")
	require.NoError(t, err)

	assert.True(t, CheckPassword("harvest-2024", string(hash)))
	assert.False(t, CheckPassword("harvest-2025", string(hash)))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("secret", "42", "farmer")
	require.NoError(t, err)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "farmer", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTUniquePerIssue(t *testing.T) {
	a, err := GenerateJWT("secret", "42", "farmer")
	require.NoError(t, err)
	b, err := GenerateJWT("secret", "42", "farmer")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret", "42", "investor")
	require.NoError(t, err)

	_, err = ParseJWT("other", token)
	assert.Error(t, err)
}

func TestGenerateJWTEmptySecret(t *testing.T) {
	_, err := GenerateJWT("", "1", "farmer")
	assert.Error(t, err)
}
