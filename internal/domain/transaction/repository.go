package transaction

import "context"

// Repository defines the interface for transaction data access.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Transaction, error)
	// ListByIDs resolves each ID to its transaction, in store order. A
	// missing ID is an error wrapping ErrNotFound.
	ListByIDs(ctx context.Context, ids []string) ([]Transaction, error)
	// Upsert creates or replaces transactions by ID.
	Upsert(ctx context.Context, transactions []Transaction) error
}
