package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "postline:session:"

// SessionCache keeps a Redis cache in front of the session-token rows,
// mapping token ID to user ID. The MySQL row stays authoritative: a cache
// miss falls through to the database, and logout invalidates the key before
// the row is deleted.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a SessionCache. The TTL should match the access
// credential TTL; an entry never needs to outlive the credential it vouches
// for. A nil client disables the cache.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

// MarkActive records that the session-token row exists for userID.
func (c *SessionCache) MarkActive(ctx context.Context, tokenID, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, sessionKey(tokenID), userID, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session %s: %w", tokenID, err)
	}
	return nil
}

// Lookup returns the cached user ID for a session token. ok=false only means
// "not cached" and callers must fall through to the database.
func (c *SessionCache) Lookup(ctx context.Context, tokenID string) (string, bool, error) {
	if c == nil || c.client == nil {
		return "", false, nil
	}
	userID, err := c.client.Get(ctx, sessionKey(tokenID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session cache for %s: %w", tokenID, err)
	}
	return userID, true, nil
}

// Invalidate drops the cache entry. Called on logout before the row delete
// so a stale hit cannot outlive the session.
func (c *SessionCache) Invalidate(ctx context.Context, tokenID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate session cache for %s: %w", tokenID, err)
	}
	return nil
}
