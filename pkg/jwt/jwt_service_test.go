package jwt

import (
	"context"
	"testing"
	"time"

	"nutriscan-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalJWTService_RoundTrip(t *testing.T) {
	svc := NewLocalJWTService("test-secret")

	token, err := svc.GenerateTokenUser(Identity{UID: "uid-1", Email: "ana@example.com", Name: "Ana"}, time.Hour)
	require.NoError(t, err)

	identity, err := svc.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", identity.UID)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.Equal(t, "Ana", identity.Name)
}

func TestLocalJWTService_Expired(t *testing.T) {
	svc := NewLocalJWTService("test-secret")

	token, err := svc.GenerateTokenUser(Identity{UID: "uid-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestLocalJWTService_WrongSecret(t *testing.T) {
	token, err := NewLocalJWTService("secret-a").GenerateTokenUser(Identity{UID: "uid-1"}, time.Hour)
	require.NoError(t, err)

	_, err = NewLocalJWTService("secret-b").VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLocalJWTService_Garbage(t *testing.T) {
	_, err := NewLocalJWTService("secret").VerifyToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 19008*time.Second, maxAge("public, max-age=19008, must-revalidate, no-transform"))
	assert.Equal(t, time.Hour, maxAge(""))
	assert.Equal(t, time.Hour, maxAge("no-cache"))
}
