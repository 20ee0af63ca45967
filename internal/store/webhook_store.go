package store

import (
	"sync"

	"github.com/tiketin/payment-api/internal/models"
)

// WebhookStore retains recently received webhook records in memory for the
// admin/debug surface. Records are created only for non-duplicate events,
// are immutable once stored, and do not survive a restart.
type WebhookStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.WebhookRecord
	ordered []*models.WebhookRecord
}

// NewWebhookStore creates an empty webhook store.
func NewWebhookStore() *WebhookStore {
	return &WebhookStore{byID: make(map[string]*models.WebhookRecord)}
}

// Save stores a record. A record with a known id is ignored; dedup upstream
// means this only happens when an explicit delivery id collides.
func (s *WebhookStore) Save(rec *models.WebhookRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[rec.ID]; ok {
		return
	}
	s.byID[rec.ID] = rec
	s.ordered = append(s.ordered, rec)
}

// Get returns the record with the given id, or nil when absent.
func (s *WebhookStore) Get(id string) *models.WebhookRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// List returns all records, newest received first.
func (s *WebhookStore) List() []*models.WebhookRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.WebhookRecord, len(s.ordered))
	for i, rec := range s.ordered {
		out[len(s.ordered)-1-i] = rec
	}
	return out
}
