package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", 24)
	userID := uuid.New()

	token, err := manager.GenerateToken(userID, "reviewer@example.com", "REVIEWER")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "reviewer@example.com", claims.Email)
	assert.Equal(t, "REVIEWER", claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", 24).GenerateToken(uuid.New(), "a@example.com", "ADMIN")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", 24).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -1)
	token, err := manager.GenerateToken(uuid.New(), "a@example.com", "ADMIN")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := NewJWTManager("test-secret", 24).ValidateToken("not.a.token")
	assert.Error(t, err)
}
