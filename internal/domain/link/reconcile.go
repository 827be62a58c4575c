package link

import (
	"medisave/internal/domain/account"
	"medisave/internal/domain/transaction"
)

// Delta is the subset of a candidate batch that is newly linkable. Element
// order equals the candidate batch's order, filtered, never re-sorted; it
// determines display order downstream.
type Delta struct {
	Accounts     []account.Account
	Transactions []transaction.Transaction
}

// Empty reports whether the delta carries no records.
func (d Delta) Empty() bool {
	return len(d.Accounts) == 0 && len(d.Transactions) == 0
}

// Reconcile computes which candidate records are newly linkable for a user
// and the linkage state after linking them.
//
// A candidate account enters the delta iff its owner is userID and its ID is
// not already linked. A candidate transaction enters the delta iff the
// account it references is owned by userID and its ID is not already linked;
// whether that account is itself linked is irrelevant — account and
// transaction linkage are independent decisions. Records are matched
// strictly by ID, never by content, so two records with identical fields but
// different IDs are both kept, and a duplicate ID inside one batch
// contributes once.
//
// accountOwner maps IDs of accounts already in the store to their owners,
// for candidate transactions that reference accounts outside the batch.
// Accounts in the candidate batch take precedence over it.
//
// Reconcile is pure: inputs are never mutated, and an empty batch returns an
// equal state with an empty delta.
func Reconcile(
	userID string,
	st State,
	accounts []account.Account,
	transactions []transaction.Transaction,
	accountOwner map[string]string,
) (State, Delta) {
	owners := make(map[string]string, len(accountOwner)+len(accounts))
	for id, owner := range accountOwner {
		owners[id] = owner
	}
	for _, a := range accounts {
		owners[a.ID] = a.OwnerUserID
	}

	next := st.Clone()
	var delta Delta

	for _, a := range accounts {
		if a.OwnerUserID != userID {
			continue
		}
		if next.HasAccount(a.ID) {
			continue
		}
		next.accounts[a.ID] = struct{}{}
		delta.Accounts = append(delta.Accounts, a)
	}

	for _, t := range transactions {
		owner, known := owners[t.AccountID]
		if !known || owner != userID {
			continue
		}
		if next.HasTransaction(t.ID) {
			continue
		}
		next.transactions[t.ID] = struct{}{}
		delta.Transactions = append(delta.Transactions, t)
	}

	return next, delta
}
