package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tiketin/payment-api/internal/ledger"
)

// RedisLedgerStore implements ledger.Store on Redis. The entry TTL doubles as
// the expiry window, so no sweep pass is needed.
type RedisLedgerStore struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewRedisLedgerStore creates a Redis-backed idempotency ledger store.
func NewRedisLedgerStore(redis *RedisClient, ttl time.Duration) *RedisLedgerStore {
	return &RedisLedgerStore{redis: redis, ttl: ttl}
}

func (s *RedisLedgerStore) key(compound string) string {
	return fmt.Sprintf("idempotency:%s", compound)
}

// Get retrieves a cached response entry, or nil when absent/expired.
func (s *RedisLedgerStore) Get(ctx context.Context, key string) (*ledger.Entry, error) {
	raw, err := s.redis.Get(ctx, s.key(key))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read idempotency entry: %w", err)
	}
	var entry ledger.Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency entry: %w", err)
	}
	return &entry, nil
}

// Put stores a response entry with the ledger TTL.
func (s *RedisLedgerStore) Put(ctx context.Context, key string, entry *ledger.Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency entry: %w", err)
	}
	return s.redis.Set(ctx, s.key(key), string(raw), s.ttl)
}
