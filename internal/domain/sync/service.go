// Package sync orchestrates a linking operation: fetch the user's data from
// the provider, reconcile it against the session's linkage state, persist
// the new state, and extend the working set.
package sync

import (
	"context"
	"fmt"
	"log/slog"

	"medisave/internal/domain/account"
	"medisave/internal/domain/bill"
	"medisave/internal/domain/link"
	"medisave/internal/domain/session"
	"medisave/internal/domain/transaction"
	"medisave/internal/domain/user"
	"medisave/internal/infrastructure/provider"
)

// Result contains the results of a linking operation.
type Result struct {
	UserID             string
	AccountsFound      int
	TransactionsFound  int
	AccountsLinked     int
	TransactionsLinked int
	BillsFetched       int
	Skipped            int // candidates that could not be converted or resolved
	Errors             []string
}

// Service handles linking provider data into a session.
type Service struct {
	client       provider.ClientIface
	users        user.Repository
	accounts     account.Repository
	transactions transaction.Repository
}

// NewService creates a new linking service.
func NewService(client provider.ClientIface, users user.Repository, accounts account.Repository, transactions transaction.Repository) *Service {
	return &Service{
		client:       client,
		users:        users,
		accounts:     accounts,
		transactions: transactions,
	}
}

// LinkFromProvider performs one full linking pass for the session's user.
//
// Any provider failure surfaces before the session or the store is touched,
// so a failed attempt never loses previously linked records. The delta's
// records and the updated linkage state are written back to the store
// before the session observes them, so every link survives a restart.
func (s *Service) LinkFromProvider(ctx context.Context, sess *session.Session) (*Result, error) {
	result := &Result{UserID: sess.UserID, Errors: []string{}}

	token, err := s.client.Authenticate(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("provider handshake: %w", err)
	}

	acctResp, err := s.client.ListAccounts(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	txResp, err := s.client.ListTransactions(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	billResp, err := s.client.ListBills(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch bills: %w", err)
	}

	result.AccountsFound = len(acctResp.Accounts)
	result.TransactionsFound = len(txResp.Transactions)

	candAccounts := convertAccounts(acctResp.Accounts)
	candTransactions := s.convertTransactions(txResp.Transactions, result)
	owners := s.resolveOwners(ctx, candAccounts, candTransactions)

	next, delta := link.Reconcile(sess.UserID, sess.Links, candAccounts, candTransactions, owners)

	if !delta.Empty() {
		// Persist the linked records before the linkage state. The store
		// rejects a linked ID it cannot resolve, so the user record must
		// never point at accounts or transactions that only ever lived in
		// a provider response. Accounts go first: the transactions
		// reference them.
		if err := s.accounts.Upsert(ctx, delta.Accounts); err != nil {
			return nil, fmt.Errorf("persist linked accounts: %w", err)
		}
		if err := s.transactions.Upsert(ctx, delta.Transactions); err != nil {
			return nil, fmt.Errorf("persist linked transactions: %w", err)
		}
		if err := s.users.UpdateLinks(ctx, sess.UserID, next.AccountIDs(), next.TransactionIDs()); err != nil {
			return nil, fmt.Errorf("persist linkage state: %w", err)
		}
	}
	sess.Apply(next, delta)

	bills := convertBills(billResp.Bills, sess.UserID)
	sess.SetBills(bills)

	result.AccountsLinked = len(delta.Accounts)
	result.TransactionsLinked = len(delta.Transactions)
	result.BillsFetched = len(bills)

	slog.Info("link complete",
		"user_id", sess.UserID,
		"accounts_linked", result.AccountsLinked,
		"transactions_linked", result.TransactionsLinked,
		"bills_fetched", result.BillsFetched,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result, nil
}

func convertAccounts(in []provider.Account) []account.Account {
	out := make([]account.Account, 0, len(in))
	for _, a := range in {
		out = append(out, account.Account{
			ID:          a.AccountID,
			OwnerUserID: a.UserID,
			Name:        a.Name,
			Mask:        a.Mask,
			Balance:     a.Balance,
		})
	}
	return out
}

func (s *Service) convertTransactions(in []provider.Transaction, result *Result) []transaction.Transaction {
	out := make([]transaction.Transaction, 0, len(in))
	for _, t := range in {
		date, err := t.GetDate()
		if err != nil {
			errMsg := fmt.Sprintf("skipping transaction %s: %v", t.TransactionID, err)
			result.Errors = append(result.Errors, errMsg)
			result.Skipped++
			slog.Warn("bad provider transaction", "transaction_id", t.TransactionID, "err", err)
			continue
		}
		out = append(out, transaction.Transaction{
			ID:             t.TransactionID,
			AccountID:      t.AccountID,
			Date:           date,
			Amount:         t.Amount,
			MerchantName:   t.MerchantName,
			Category:       t.Category,
			RunningBalance: t.RunningBalance,
			Pending:        t.Pending,
			Description:    t.Description,
		})
	}
	return out
}

// resolveOwners builds the account-owner index the reconciler uses for
// transactions referencing accounts outside the candidate batch. The store
// is consulted only for account IDs the batch does not explain; an ID
// missing there stays unresolved, which excludes its transactions.
func (s *Service) resolveOwners(ctx context.Context, candAccounts []account.Account, candTransactions []transaction.Transaction) map[string]string {
	inBatch := make(map[string]struct{}, len(candAccounts))
	for _, a := range candAccounts {
		inBatch[a.ID] = struct{}{}
	}

	owners := make(map[string]string)
	for _, t := range candTransactions {
		if _, ok := inBatch[t.AccountID]; ok {
			continue
		}
		if _, ok := owners[t.AccountID]; ok {
			continue
		}
		stored, err := s.accounts.GetByID(ctx, t.AccountID)
		if err != nil {
			slog.Debug("transaction references unknown account", "account_id", t.AccountID)
			continue
		}
		owners[t.AccountID] = stored.OwnerUserID
	}
	return owners
}

func convertBills(in []provider.Bill, userID string) []bill.Item {
	out := make([]bill.Item, 0, len(in))
	for _, b := range in {
		if b.UserID != userID {
			continue
		}
		out = append(out, bill.Item{
			Service:     b.Service,
			Cost:        b.Cost,
			OwnerUserID: b.UserID,
		})
	}
	return out
}
