// Package session holds the per-login working set: the in-memory
// materialization of a user's linked records, plus read-only projections
// over it for display.
package session

import (
	"medisave/internal/domain/account"
	"medisave/internal/domain/bill"
	"medisave/internal/domain/link"
	"medisave/internal/domain/transaction"
)

// Session is the working set of one authenticated session. It is created at
// login, extended (never shrunk) by successful linking operations, and
// discarded at logout. It is never persisted.
type Session struct {
	UserID       string
	Links        link.State
	Accounts     []account.Account
	Transactions []transaction.Transaction
	Bills        []bill.Item
}

// New builds a session from the materialized linkage sets at login time.
func New(userID string, links link.State, accounts []account.Account, transactions []transaction.Transaction, bills []bill.Item) *Session {
	return &Session{
		UserID:       userID,
		Links:        links,
		Accounts:     accounts,
		Transactions: transactions,
		Bills:        bills,
	}
}

// Apply advances the session to the reconciled linkage state and appends the
// delta's records to the working set, preserving delta order. Records whose
// IDs are already materialized are skipped, keeping the no-duplicates
// invariant even against a misbehaving caller.
func (s *Session) Apply(next link.State, delta link.Delta) {
	seenAccounts := make(map[string]struct{}, len(s.Accounts))
	for _, a := range s.Accounts {
		seenAccounts[a.ID] = struct{}{}
	}
	for _, a := range delta.Accounts {
		if _, ok := seenAccounts[a.ID]; ok {
			continue
		}
		s.Accounts = append(s.Accounts, a)
	}

	seenTxs := make(map[string]struct{}, len(s.Transactions))
	for _, t := range s.Transactions {
		seenTxs[t.ID] = struct{}{}
	}
	for _, t := range delta.Transactions {
		if _, ok := seenTxs[t.ID]; ok {
			continue
		}
		s.Transactions = append(s.Transactions, t)
	}

	s.Links = next
}

// SetBills replaces the session's bill list with a fresh provider fetch.
func (s *Session) SetBills(bills []bill.Item) {
	s.Bills = bills
}
