// Package blacklist implements the access-token revocation set. Revoked
// tokens stay listed until their natural expiry, which bounds memory.
//
// The Redis implementation is the production path: a process-local set is a
// correctness risk as soon as more than one instance serves traffic, because
// a token revoked on one instance would still pass on the others.
package blacklist

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist is the revocation set consulted on every authenticated request.
type Blacklist interface {
	// Revoke lists a token for ttl. Non-positive ttl is a no-op: the
	// token is already expired and verification rejects it anyway.
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

const redisKeyPrefix = "denylist:"

// RedisBlacklist shares the revocation set across instances with TTL'd keys.
type RedisBlacklist struct {
	rdb *redis.Client
}

func NewRedisBlacklist(rdb *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{rdb: rdb}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, redisKeyPrefix+token, "1", ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, redisKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryBlacklist serves single-instance runs and tests. Expired entries are
// removed by a fire-and-forget timer; losing one to a restart only means an
// empty set, never a stale revocation.
type MemoryBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{tokens: make(map[string]struct{})}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	b.tokens[token] = struct{}{}
	b.mu.Unlock()

	time.AfterFunc(ttl, func() {
		b.mu.Lock()
		delete(b.tokens, token)
		b.mu.Unlock()
	})
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.tokens[token]
	return ok, nil
}
