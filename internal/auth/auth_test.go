package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("hunter2", "not-a-hash"))
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	userID := uuid.New()

	tokenString, err := tokens.Generate(userID, "alice")
	require.NoError(t, err)

	claims, err := tokens.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "stockledger", claims.Issuer)
}

func TestTokensRejectWrongSecret(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	other := NewTokens("other-secret", time.Hour)

	tokenString, err := tokens.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = other.Validate(tokenString)
	assert.Error(t, err)
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute)

	tokenString, err := tokens.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = tokens.Validate(tokenString)
	assert.Error(t, err)
}

func TestTokensRejectGarbage(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	_, err := tokens.Validate("not.a.token")
	assert.Error(t, err)
}
