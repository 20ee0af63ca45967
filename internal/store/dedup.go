package store

import (
	"context"
	"sync"
)

// DedupStore tracks which event identifiers have already been processed.
// MarkProcessed is an atomic compare-and-insert: the "seen" check and the
// mark must not be separable, or two concurrent deliveries of the same
// identifier would both observe "unseen".
type DedupStore interface {
	// MarkProcessed records id as processed and reports whether it had been
	// recorded before.
	MarkProcessed(ctx context.Context, id string) (alreadySeen bool, err error)
}

// MemoryDedupStore is the process-local DedupStore. Identifiers live for the
// process lifetime; multi-instance deployments need the Redis-backed store.
type MemoryDedupStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryDedupStore creates an empty in-memory dedup store.
func NewMemoryDedupStore() *MemoryDedupStore {
	return &MemoryDedupStore{seen: make(map[string]struct{})}
}

// MarkProcessed implements DedupStore. The mutex makes check-then-mark one
// atomic step.
func (s *MemoryDedupStore) MarkProcessed(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; ok {
		return true, nil
	}
	s.seen[id] = struct{}{}
	return false, nil
}
