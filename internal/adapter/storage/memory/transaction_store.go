package memory

import (
	"context"
	"sync"

	"sandbox-payment-gateway/internal/core/domain"
)

// TransactionStore is a process-lifetime, concurrency-safe transaction table.
// Each instance owns its own map so tests can isolate state.
type TransactionStore struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
}

// NewTransactionStore creates an empty store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{transactions: make(map[string]*domain.Transaction)}
}

// Create stores a copy of the transaction under its id.
func (s *TransactionStore) Create(ctx context.Context, trx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *trx
	s.transactions[trx.ID] = &cp
	return nil
}

// GetByID returns a copy of the transaction, or (nil, nil) if unknown.
func (s *TransactionStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trx, ok := s.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *trx
	return &cp, nil
}

// Update applies fn to the stored transaction while holding the write lock,
// so concurrent mutations of the same id cannot interleave. Returns
// (nil, nil) if the id is unknown; an error from fn aborts the mutation.
func (s *TransactionStore) Update(ctx context.Context, id string, fn func(*domain.Transaction) error) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trx, ok := s.transactions[id]
	if !ok {
		return nil, nil
	}
	staged := *trx
	if err := fn(&staged); err != nil {
		return nil, err
	}
	s.transactions[id] = &staged
	cp := staged
	return &cp, nil
}

// List returns copies of all stored transactions in unspecified order.
func (s *TransactionStore) List(ctx context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Transaction, 0, len(s.transactions))
	for _, trx := range s.transactions {
		cp := *trx
		out = append(out, &cp)
	}
	return out, nil
}
