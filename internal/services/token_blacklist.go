package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "fajr:jwt:revoked:"

// TokenBlacklist remembers revoked access-token IDs until the tokens expire.
// Entries live in Redis when a client is configured, otherwise in process
// memory (lost on restart, not shared between instances).
type TokenBlacklist struct {
	client *redis.Client

	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		client:  client,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke blacklists tokenID until expiresAt. Already expired tokens are
// ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}

	if b.client != nil {
		return b.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
	}

	b.mu.Lock()
	b.entries[tokenID] = expiresAt
	b.mu.Unlock()
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not yet expired.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	if b.client != nil {
		n, err := b.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	expiresAt, ok := b.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !b.now().Before(expiresAt) {
		delete(b.entries, tokenID)
		return false, nil
	}
	return true, nil
}

// Status describes the backing store for health checks.
func (b *TokenBlacklist) Status(ctx context.Context) string {
	if b.client == nil {
		return "disabled (in-memory revocation)"
	}
	if err := b.client.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "ok"
}

// Close releases the Redis connection pool, if any.
func (b *TokenBlacklist) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}
