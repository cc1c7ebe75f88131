package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked token ids.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisBlacklist keeps revoked token ids as expiring Redis keys.
type RedisBlacklist struct {
	redis *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{redis: client}
}

func blacklistKey(tokenID string) string {
	return fmt.Sprintf("blacklist:token:%s", tokenID)
}

func (b *RedisBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.redis.Set(ctx, blacklistKey(tokenID), 1, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := b.redis.Exists(ctx, blacklistKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// MemoryBlacklist is an in-process blacklist for the memory store driver.
type MemoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{revoked: make(map[string]time.Time)}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(b.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// NopBlacklist never revokes anything.
type NopBlacklist struct{}

func (NopBlacklist) Revoke(context.Context, string, time.Duration) error { return nil }
func (NopBlacklist) IsRevoked(context.Context, string) (bool, error)     { return false, nil }
