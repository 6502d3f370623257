package auth

import (
	"context"
	"time"

	"eventease/internal/cache"
)

const revokedTokenKeyPrefix = "revoked_token:"

// TokenStoreInterface defines the interface for token revocation storage.
type TokenStoreInterface interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked token IDs in Redis until their natural expiry.
// Sign-out writes here; the identity resolver checks here on every request.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeToken marks a token ID as revoked until its TTL elapses.
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to revoke.
		return nil
	}
	key := revokedTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, []byte("1"), ttl)
}

// IsRevoked checks if a token ID has been revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := revokedTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, nil // fail safe: treat as not revoked
	}
	return data != nil, nil
}
