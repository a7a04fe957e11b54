package ports

import (
	"context"

	"sandbox-payment-gateway/internal/core/domain"
)

// TransactionStore is the single source of truth for transaction state.
// Implementations must be safe for concurrent use; lookups return (nil, nil)
// when the key is unknown.
type TransactionStore interface {
	Create(ctx context.Context, trx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// Update applies fn to the stored transaction atomically with respect to
	// other updates on the same id. Returns (nil, nil) if the id is unknown;
	// an error from fn aborts the mutation.
	Update(ctx context.Context, id string, fn func(*domain.Transaction) error) (*domain.Transaction, error)
	List(ctx context.Context) ([]*domain.Transaction, error)
}

// NotificationStore mirrors delivered IPN payloads for later read-back.
// Records are keyed by both transaction id and merchant identifier;
// last write wins on either key.
type NotificationStore interface {
	Put(ctx context.Context, rec *domain.NotificationRecord) error
	Get(ctx context.Context, key string) (*domain.NotificationRecord, error)
	List(ctx context.Context) ([]*domain.NotificationRecord, error)
}
