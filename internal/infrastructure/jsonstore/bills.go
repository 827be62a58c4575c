package jsonstore

import (
	"context"

	"medisave/internal/domain/bill"
)

// BillRepository implements bill.Repository over the JSON store.
type BillRepository struct {
	s *Store
}

// Ensure interface compliance
var _ bill.Repository = (*BillRepository)(nil)

// NewBillRepository creates a bill repository backed by the store.
func NewBillRepository(s *Store) *BillRepository {
	return &BillRepository{s: s}
}

// ListByOwner returns the bill items for a user, in store order.
func (r *BillRepository) ListByOwner(_ context.Context, userID string) ([]bill.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []bill.Item
	for _, b := range r.s.bills {
		if b.OwnerUserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}
