// Package link implements the account/transaction linking engine: the
// linkage state a user accumulates and the reconciliation of candidate
// batches against it.
package link

import (
	"sort"
)

// State is the pair of ID sets recording which accounts and transactions a
// user has linked to their profile, independent of true ownership.
//
// State values are immutable from the outside: Reconcile returns a fresh
// State and never mutates its input.
type State struct {
	accounts     map[string]struct{}
	transactions map[string]struct{}
}

// NewState builds a State from ID slices, deduplicating as it goes.
func NewState(accountIDs, transactionIDs []string) State {
	st := State{
		accounts:     make(map[string]struct{}, len(accountIDs)),
		transactions: make(map[string]struct{}, len(transactionIDs)),
	}
	for _, id := range accountIDs {
		st.accounts[id] = struct{}{}
	}
	for _, id := range transactionIDs {
		st.transactions[id] = struct{}{}
	}
	return st
}

// HasAccount reports whether the account ID is already linked.
func (s State) HasAccount(id string) bool {
	_, ok := s.accounts[id]
	return ok
}

// HasTransaction reports whether the transaction ID is already linked.
func (s State) HasTransaction(id string) bool {
	_, ok := s.transactions[id]
	return ok
}

// AccountIDs returns the linked account IDs as a sorted copy.
func (s State) AccountIDs() []string {
	return sortedKeys(s.accounts)
}

// TransactionIDs returns the linked transaction IDs as a sorted copy.
func (s State) TransactionIDs() []string {
	return sortedKeys(s.transactions)
}

// AccountCount returns the number of linked accounts.
func (s State) AccountCount() int { return len(s.accounts) }

// TransactionCount returns the number of linked transactions.
func (s State) TransactionCount() int { return len(s.transactions) }

// Clone returns an independent copy sharing no storage with the receiver.
func (s State) Clone() State {
	out := State{
		accounts:     make(map[string]struct{}, len(s.accounts)),
		transactions: make(map[string]struct{}, len(s.transactions)),
	}
	for id := range s.accounts {
		out.accounts[id] = struct{}{}
	}
	for id := range s.transactions {
		out.transactions[id] = struct{}{}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
