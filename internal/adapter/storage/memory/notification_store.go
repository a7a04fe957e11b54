package memory

import (
	"context"
	"sync"

	"sandbox-payment-gateway/internal/core/domain"
)

// NotificationStore mirrors IPN payloads keyed by both transaction id and
// merchant identifier. Last write wins on either key.
type NotificationStore struct {
	mu      sync.RWMutex
	records map[string]*domain.NotificationRecord
}

// NewNotificationStore creates an empty store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{records: make(map[string]*domain.NotificationRecord)}
}

// Put records the notification under the transaction id and, when present,
// the merchant identifier.
func (s *NotificationStore) Put(ctx context.Context, rec *domain.NotificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.TrxID] = &cp
	if rec.Identifier != "" {
		s.records[rec.Identifier] = &cp
	}
	return nil
}

// Get returns the last notification recorded under key, or (nil, nil).
func (s *NotificationStore) Get(ctx context.Context, key string) (*domain.NotificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// List returns one entry per recorded notification, deduplicated across the
// two key spaces.
func (s *NotificationStore) List(ctx context.Context) ([]*domain.NotificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool, len(s.records))
	out := make([]*domain.NotificationRecord, 0, len(s.records))
	for _, rec := range s.records {
		if seen[rec.TrxID] {
			continue
		}
		seen[rec.TrxID] = true
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}
