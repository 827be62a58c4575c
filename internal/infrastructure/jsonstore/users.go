package jsonstore

import (
	"context"
	"fmt"
	"time"

	"medisave/internal/domain/user"
)

// UserRepository implements user.Repository over the JSON store.
type UserRepository struct {
	s *Store
}

// Ensure interface compliance
var _ user.Repository = (*UserRepository)(nil)

// NewUserRepository creates a user repository backed by the store.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

// Create appends a new user with empty linkage sets and replaces the
// collection file.
func (r *UserRepository) Create(_ context.Context, params user.CreateParams) (*user.User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, dup := r.s.userByID[params.ID]; dup {
		return nil, fmt.Errorf("user ID %q already exists", params.ID)
	}

	u := user.User{
		ID:                   params.ID,
		Email:                params.Email,
		CredentialHash:       params.CredentialHash,
		LinkedAccountIDs:     []string{},
		LinkedTransactionIDs: []string{},
		CreatedAt:            time.Now().UTC(),
	}

	r.s.users = append(r.s.users, u)
	r.s.userByID[u.ID] = len(r.s.users) - 1

	if err := writeCollection(r.s.path(usersFile), r.s.users); err != nil {
		// Roll the in-memory table back so memory matches disk.
		r.s.users = r.s.users[:len(r.s.users)-1]
		delete(r.s.userByID, u.ID)
		return nil, err
	}

	out := copyUser(u)
	return &out, nil
}

// GetByID returns a copy of the user, or user.ErrNotFound.
func (r *UserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.userByID[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, user.ErrNotFound)
	}
	out := copyUser(r.s.users[i])
	return &out, nil
}

// GetByEmail scans for an exact, case-sensitive email match.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, user.ErrNotFound
}

// List returns copies of all users in store order.
func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

// UpdateLinks replaces the user's linkage sets and persists the collection.
func (r *UserRepository) UpdateLinks(_ context.Context, id string, accountIDs, transactionIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.userByID[id]
	if !ok {
		return fmt.Errorf("user %q: %w", id, user.ErrNotFound)
	}

	prevAccounts := r.s.users[i].LinkedAccountIDs
	prevTxs := r.s.users[i].LinkedTransactionIDs

	r.s.users[i].LinkedAccountIDs = append([]string(nil), accountIDs...)
	r.s.users[i].LinkedTransactionIDs = append([]string(nil), transactionIDs...)

	if err := writeCollection(r.s.path(usersFile), r.s.users); err != nil {
		r.s.users[i].LinkedAccountIDs = prevAccounts
		r.s.users[i].LinkedTransactionIDs = prevTxs
		return err
	}
	return nil
}

// copyUser detaches the linkage slices so callers cannot alias store state.
func copyUser(u user.User) user.User {
	u.LinkedAccountIDs = copyStrings(u.LinkedAccountIDs)
	u.LinkedTransactionIDs = copyStrings(u.LinkedTransactionIDs)
	return u
}

// copyStrings clones a slice, preserving the distinction between nil and
// an empty (but allocated) slice.
func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
