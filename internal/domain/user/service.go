package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"medisave/internal/domain/account"
	"medisave/internal/domain/bill"
	"medisave/internal/domain/link"
	"medisave/internal/domain/session"
	"medisave/internal/domain/transaction"
	"medisave/internal/shared/auth"
)

// Service resolves identities: it authenticates credentials and hands out a
// session carrying a snapshot of the user's linkage state.
type Service struct {
	users        Repository
	accounts     account.Repository
	transactions transaction.Repository
	bills        bill.Repository
}

// NewService creates a new identity service.
func NewService(users Repository, accounts account.Repository, transactions transaction.Repository, bills bill.Repository) *Service {
	return &Service{
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		bills:        bills,
	}
}

// Signup creates a user with an empty linkage state and returns its ID.
// An email equal (case-sensitive) to an existing user's is ErrEmailTaken and
// leaves the store untouched. Empty email and credential are legal inputs.
func (s *Service) Signup(ctx context.Context, email, credential string) (string, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashCredential(credential)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}

	u, err := s.users.Create(ctx, CreateParams{
		ID:             uuid.NewString(),
		Email:          email,
		CredentialHash: hash,
	})
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	slog.Info("user created", "user_id", u.ID)
	return u.ID, nil
}

// Authenticate verifies a credential pair and, on success, builds the
// session working set: the user's linked accounts and transactions
// materialized from the store (in store order) plus their bills.
//
// Unknown email and credential mismatch are both ErrInvalidCredentials; the
// two cases are indistinguishable to the caller. The session's linkage state
// is a copy — later store mutation is not observed.
func (s *Service) Authenticate(ctx context.Context, email, credential string) (*session.Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn a comparison so an unknown email takes as long as a
			// credential mismatch.
			auth.DummyCheck(credential)
			slog.Debug("login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if err := auth.CheckCredential(u.CredentialHash, credential); err != nil {
		slog.Debug("login failed: credential mismatch", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	accounts, err := s.accounts.ListByIDs(ctx, u.LinkedAccountIDs)
	if err != nil {
		return nil, fmt.Errorf("materialize linked accounts: %w", err)
	}
	transactions, err := s.transactions.ListByIDs(ctx, u.LinkedTransactionIDs)
	if err != nil {
		return nil, fmt.Errorf("materialize linked transactions: %w", err)
	}
	bills, err := s.bills.ListByOwner(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}

	slog.Info("user authenticated",
		"user_id", u.ID,
		"linked_accounts", len(accounts),
		"linked_transactions", len(transactions),
		"bills", len(bills),
	)

	links := link.NewState(u.LinkedAccountIDs, u.LinkedTransactionIDs)
	return session.New(u.ID, links, accounts, transactions, bills), nil
}
