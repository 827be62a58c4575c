package jsonstore

import (
	"context"
	"fmt"

	"medisave/internal/domain/account"
)

// AccountRepository implements account.Repository over the JSON store.
type AccountRepository struct {
	s *Store
}

// Ensure interface compliance
var _ account.Repository = (*AccountRepository)(nil)

// NewAccountRepository creates an account repository backed by the store.
func NewAccountRepository(s *Store) *AccountRepository {
	return &AccountRepository{s: s}
}

// GetByID returns a copy of the account, or account.ErrNotFound.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*account.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.accountByID[id]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", id, account.ErrNotFound)
	}
	a := r.s.accounts[i]
	return &a, nil
}

// ListByOwner returns the accounts owned by a user, in store order.
func (r *AccountRepository) ListByOwner(_ context.Context, userID string) ([]account.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []account.Account
	for _, a := range r.s.accounts {
		if a.OwnerUserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListByIDs resolves each ID, in store order. IDs are treated as a set, so
// the result carries no duplicates.
func (r *AccountRepository) ListByIDs(_ context.Context, ids []string) ([]account.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.s.accountByID[id]; !ok {
			return nil, fmt.Errorf("account %q: %w", id, account.ErrNotFound)
		}
		want[id] = struct{}{}
	}

	out := make([]account.Account, 0, len(want))
	for _, a := range r.s.accounts {
		if _, ok := want[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Upsert creates or replaces accounts by ID in one collection rewrite.
// Linking persists provider records through this before touching the
// user's linkage sets, so every linked ID resolves after a restart.
func (r *AccountRepository) Upsert(_ context.Context, accounts []account.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range accounts {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("account %q: %w", a.ID, err)
		}
	}

	prev := append([]account.Account(nil), r.s.accounts...)
	prevIdx := make(map[string]int, len(r.s.accountByID))
	for id, i := range r.s.accountByID {
		prevIdx[id] = i
	}

	for _, a := range accounts {
		if i, ok := r.s.accountByID[a.ID]; ok {
			r.s.accounts[i] = a
			continue
		}
		r.s.accounts = append(r.s.accounts, a)
		r.s.accountByID[a.ID] = len(r.s.accounts) - 1
	}

	if err := writeCollection(r.s.path(accountsFile), r.s.accounts); err != nil {
		// Roll the in-memory table back so memory matches disk.
		r.s.accounts = prev
		r.s.accountByID = prevIdx
		return err
	}
	return nil
}
