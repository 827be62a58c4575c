package user

import "context"

// Repository defines the interface for user data access.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByEmail matches the email exactly (case-sensitive). A miss is an
	// error wrapping ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// UpdateLinks replaces the user's linkage sets and persists them.
	UpdateLinks(ctx context.Context, id string, accountIDs, transactionIDs []string) error
}
