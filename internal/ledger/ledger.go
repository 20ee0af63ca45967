// Package ledger implements the client-key idempotency ledger: it caches the
// response of a write request keyed by method, path and the caller-supplied
// Idempotency-Key so that retries replay the original outcome instead of
// re-executing side effects.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Entry is a cached response for one compound idempotency key.
type Entry struct {
	Status      int       `json:"status"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store is the ledger's storage interface. Get returns nil (no error) when
// the key is absent or the entry has expired.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, entry *Entry) error
}

// Key builds the compound ledger key from the request method, path and the
// caller-supplied idempotency key.
func Key(method, path, idempotencyKey string) string {
	return fmt.Sprintf("%s:%s:%s", method, path, idempotencyKey)
}

// MemoryStore is the process-local ledger store. Entries expire after TTL;
// expired entries are swept lazily when the entry count passes the sweep
// threshold, not proactively.
type MemoryStore struct {
	mu             sync.Mutex
	entries        map[string]*Entry
	ttl            time.Duration
	sweepThreshold int
	now            func() time.Time
}

// NewMemoryStore creates a memory ledger store with the given entry TTL and
// lazy-sweep threshold.
func NewMemoryStore(ttl time.Duration, sweepThreshold int) *MemoryStore {
	return &MemoryStore{
		entries:        make(map[string]*Entry),
		ttl:            ttl,
		sweepThreshold: sweepThreshold,
		now:            time.Now,
	}
}

// Get implements Store. An expired entry reads as absent; the stale row is
// left for the sweep.
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if s.now().Sub(e.CreatedAt) > s.ttl {
		return nil, nil
	}
	return e, nil
}

// Put implements Store, overwriting any previous entry for the key. When the
// ledger exceeds the sweep threshold, entries past the TTL are removed.
func (s *MemoryStore) Put(_ context.Context, key string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	if len(s.entries) > s.sweepThreshold {
		s.sweep()
	}
	return nil
}

// sweep removes expired entries. Caller holds the lock.
func (s *MemoryStore) sweep() {
	cutoff := s.now().Add(-s.ttl)
	for k, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// Len reports the current entry count.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
