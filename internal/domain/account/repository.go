package account

import "context"

// Repository defines the interface for account data access.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	// ListByOwner returns the accounts owned by a user, in store order.
	ListByOwner(ctx context.Context, userID string) ([]Account, error)
	// ListByIDs resolves each ID to its account, in store order. A missing
	// ID is an error wrapping ErrNotFound.
	ListByIDs(ctx context.Context, ids []string) ([]Account, error)
	// Upsert creates or replaces accounts by ID.
	Upsert(ctx context.Context, accounts []Account) error
}
