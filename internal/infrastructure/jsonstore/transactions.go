package jsonstore

import (
	"context"
	"fmt"

	"medisave/internal/domain/transaction"
)

// TransactionRepository implements transaction.Repository over the JSON store.
type TransactionRepository struct {
	s *Store
}

// Ensure interface compliance
var _ transaction.Repository = (*TransactionRepository)(nil)

// NewTransactionRepository creates a transaction repository backed by the store.
func NewTransactionRepository(s *Store) *TransactionRepository {
	return &TransactionRepository{s: s}
}

// GetByID returns a copy of the transaction, or transaction.ErrNotFound.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.transactionByID[id]
	if !ok {
		return nil, fmt.Errorf("transaction %q: %w", id, transaction.ErrNotFound)
	}
	t := r.s.transactions[i]
	return &t, nil
}

// ListByIDs resolves each ID, in store order. IDs are treated as a set, so
// the result carries no duplicates.
func (r *TransactionRepository) ListByIDs(_ context.Context, ids []string) ([]transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.s.transactionByID[id]; !ok {
			return nil, fmt.Errorf("transaction %q: %w", id, transaction.ErrNotFound)
		}
		want[id] = struct{}{}
	}

	out := make([]transaction.Transaction, 0, len(want))
	for _, t := range r.s.transactions {
		if _, ok := want[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Upsert creates or replaces transactions by ID in one collection rewrite.
// Callers persist the referenced accounts first so the foreign keys hold
// when the store is next opened.
func (r *TransactionRepository) Upsert(_ context.Context, transactions []transaction.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %q: %w", t.ID, err)
		}
	}

	prev := append([]transaction.Transaction(nil), r.s.transactions...)
	prevIdx := make(map[string]int, len(r.s.transactionByID))
	for id, i := range r.s.transactionByID {
		prevIdx[id] = i
	}

	for _, t := range transactions {
		if i, ok := r.s.transactionByID[t.ID]; ok {
			r.s.transactions[i] = t
			continue
		}
		r.s.transactions = append(r.s.transactions, t)
		r.s.transactionByID[t.ID] = len(r.s.transactions) - 1
	}

	if err := writeCollection(r.s.path(transactionsFile), r.s.transactions); err != nil {
		// Roll the in-memory table back so memory matches disk.
		r.s.transactions = prev
		r.s.transactionByID = prevIdx
		return err
	}
	return nil
}
