package cache

import (
	"context"
	"fmt"
	"time"
)

// RedisDedupStore implements store.DedupStore on Redis so that multiple
// instances share one view of processed event identifiers. SETNX makes the
// check-and-mark a single atomic operation on the Redis side.
type RedisDedupStore struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewRedisDedupStore creates a Redis-backed dedup store. Identifiers are
// retained for ttl; a retry arriving later than that is treated as new.
func NewRedisDedupStore(redis *RedisClient, ttl time.Duration) *RedisDedupStore {
	return &RedisDedupStore{redis: redis, ttl: ttl}
}

func (s *RedisDedupStore) key(id string) string {
	return fmt.Sprintf("webhook:dedup:%s", id)
}

// MarkProcessed records the identifier and reports whether it was already present.
func (s *RedisDedupStore) MarkProcessed(ctx context.Context, id string) (bool, error) {
	set, err := s.redis.SetNX(ctx, s.key(id), "1", s.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to mark event processed: %w", err)
	}
	return !set, nil
}
