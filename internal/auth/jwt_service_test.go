package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"eventease/internal/model"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := NewJWTService("test-secret")
	user := &model.User{
		ID:    uuid.New(),
		Email: "test@example.com",
		Role:  model.RoleEventOwner,
	}

	token, err := service.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.NotEmpty(t, claims.ID, "token must carry a JTI for revocation")
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("issuer-secret")
	verifier := NewJWTService("other-secret")

	token, err := issuer.GenerateToken(&model.User{ID: uuid.New(), Email: "test@example.com"})
	assert.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	service := NewJWTService("test-secret")

	claims, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenStore_RevokeToken_ExpiredTTL(t *testing.T) {
	// A token past its expiry needs no blacklist entry; the store must not
	// write a key that never expires.
	store := NewTokenStore(nil)

	err := store.RevokeToken(context.Background(), "token-id", -time.Minute)
	assert.NoError(t, err)

	revoked, err := store.IsRevoked(context.Background(), "token-id")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
