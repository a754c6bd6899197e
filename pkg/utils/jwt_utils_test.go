package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tokenString, err := GenerateAccessToken(42, "alice", "Staff")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Staff", claims.Role)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tokenString, err := GenerateRefreshToken(7)
	require.NoError(t, err)

	claims, err := ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Empty(t, claims.Role)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateToken_TamperedSignature(t *testing.T) {
	tokenString, err := GenerateAccessToken(1, "bob", "Admin")
	require.NoError(t, err)

	_, err = ValidateToken(tokenString + "x")
	assert.Error(t, err)
}
