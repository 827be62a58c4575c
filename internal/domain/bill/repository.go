package bill

import "context"

// Repository defines the interface for bill data access.
type Repository interface {
	// ListByOwner returns the bill items for a user, in store order.
	ListByOwner(ctx context.Context, userID string) ([]Item, error)
}
