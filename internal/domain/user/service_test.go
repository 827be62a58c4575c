package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"medisave/internal/domain/account"
	"medisave/internal/domain/bill"
	"medisave/internal/domain/transaction"
	"medisave/internal/shared/auth"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	CreateFunc      func(ctx context.Context, params CreateParams) (*User, error)
	GetByIDFunc     func(ctx context.Context, id string) (*User, error)
	GetByEmailFunc  func(ctx context.Context, email string) (*User, error)
	ListFunc        func(ctx context.Context) ([]User, error)
	UpdateLinksFunc func(ctx context.Context, id string, accountIDs, transactionIDs []string) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrNotFound
}

func (m *MockRepository) List(ctx context.Context) ([]User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) UpdateLinks(ctx context.Context, id string, accountIDs, transactionIDs []string) error {
	if m.UpdateLinksFunc != nil {
		return m.UpdateLinksFunc(ctx, id, accountIDs, transactionIDs)
	}
	return nil
}

// MockAccountRepo implements account.Repository
type MockAccountRepo struct {
	ListByIDsFunc func(ctx context.Context, ids []string) ([]account.Account, error)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return nil, account.ErrNotFound
}
func (m *MockAccountRepo) ListByOwner(ctx context.Context, userID string) ([]account.Account, error) {
	return nil, nil
}
func (m *MockAccountRepo) ListByIDs(ctx context.Context, ids []string) ([]account.Account, error) {
	if m.ListByIDsFunc != nil {
		return m.ListByIDsFunc(ctx, ids)
	}
	return nil, nil
}
func (m *MockAccountRepo) Upsert(ctx context.Context, accounts []account.Account) error {
	return nil
}

// MockTransactionRepo implements transaction.Repository
type MockTransactionRepo struct {
	ListByIDsFunc func(ctx context.Context, ids []string) ([]transaction.Transaction, error)
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	return nil, transaction.ErrNotFound
}
func (m *MockTransactionRepo) ListByIDs(ctx context.Context, ids []string) ([]transaction.Transaction, error) {
	if m.ListByIDsFunc != nil {
		return m.ListByIDsFunc(ctx, ids)
	}
	return nil, nil
}
func (m *MockTransactionRepo) Upsert(ctx context.Context, transactions []transaction.Transaction) error {
	return nil
}

// MockBillRepo implements bill.Repository
type MockBillRepo struct {
	ListByOwnerFunc func(ctx context.Context, userID string) ([]bill.Item, error)
}

func (m *MockBillRepo) ListByOwner(ctx context.Context, userID string) ([]bill.Item, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, userID)
	}
	return nil, nil
}

func newTestService(users Repository) *Service {
	return NewService(users, &MockAccountRepo{}, &MockTransactionRepo{}, &MockBillRepo{})
}

func storedUser(t *testing.T, email, credential string) *User {
	t.Helper()
	hash, err := auth.HashCredential(credential)
	if err != nil {
		t.Fatalf("hash credential: %v", err)
	}
	return &User{
		ID:                   "u1",
		Email:                email,
		CredentialHash:       hash,
		LinkedAccountIDs:     []string{"a1"},
		LinkedTransactionIDs: []string{"t1"},
	}
}

func TestSignup(t *testing.T) {
	var created *CreateParams
	users := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateParams) (*User, error) {
			created = &params
			return &User{ID: params.ID, Email: params.Email}, nil
		},
	}

	id, err := newTestService(users).Signup(context.Background(), "new@example.com", "secret")
	if err != nil {
		t.Fatalf("Signup() failed: %v", err)
	}
	if id == "" {
		t.Error("Signup() returned empty user ID")
	}
	if created == nil {
		t.Fatal("Signup() never called Create")
	}
	if created.CredentialHash == "secret" || created.CredentialHash == "" {
		t.Error("Signup() stored the credential unhashed")
	}
}

func TestSignup_EmailTaken(t *testing.T) {
	createCalls := 0
	users := &MockRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email == "taken@example.com" {
				return &User{ID: "u1", Email: email}, nil
			}
			return nil, ErrNotFound
		},
		CreateFunc: func(ctx context.Context, params CreateParams) (*User, error) {
			createCalls++
			return &User{ID: params.ID}, nil
		},
	}
	svc := newTestService(users)

	if _, err := svc.Signup(context.Background(), "taken@example.com", "x"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
	if createCalls != 0 {
		t.Error("Signup() mutated the store despite the duplicate email")
	}

	// Case differs: not a duplicate.
	if _, err := svc.Signup(context.Background(), "Taken@example.com", "x"); err != nil {
		t.Errorf("Signup() with differently-cased email failed: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	u := storedUser(t, "a@example.com", "right-credential")
	users := &MockRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email == u.Email {
				return u, nil
			}
			return nil, ErrNotFound
		},
	}

	accounts := &MockAccountRepo{
		ListByIDsFunc: func(ctx context.Context, ids []string) ([]account.Account, error) {
			if len(ids) != 1 || ids[0] != "a1" {
				t.Errorf("materialized account IDs = %v, want [a1]", ids)
			}
			return []account.Account{{ID: "a1", OwnerUserID: "u1", Name: "Checking"}}, nil
		},
	}
	transactions := &MockTransactionRepo{
		ListByIDsFunc: func(ctx context.Context, ids []string) ([]transaction.Transaction, error) {
			return []transaction.Transaction{{ID: "t1", AccountID: "a1"}}, nil
		},
	}
	bills := &MockBillRepo{
		ListByOwnerFunc: func(ctx context.Context, userID string) ([]bill.Item, error) {
			return []bill.Item{{Service: "X-Ray", OwnerUserID: userID}}, nil
		},
	}

	svc := NewService(users, accounts, transactions, bills)
	sess, err := svc.Authenticate(context.Background(), "a@example.com", "right-credential")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}

	if sess.UserID != "u1" {
		t.Errorf("session user = %q, want u1", sess.UserID)
	}
	if len(sess.Accounts) != 1 || len(sess.Transactions) != 1 || len(sess.Bills) != 1 {
		t.Errorf("working set = %d/%d/%d, want 1/1/1",
			len(sess.Accounts), len(sess.Transactions), len(sess.Bills))
	}
	if !sess.Links.HasAccount("a1") || !sess.Links.HasTransaction("t1") {
		t.Error("session linkage state missing linked IDs")
	}
}

func TestAuthenticate_FailuresIndistinguishable(t *testing.T) {
	u := storedUser(t, "a@example.com", "right-credential")
	users := &MockRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email == u.Email {
				return u, nil
			}
			return nil, ErrNotFound
		},
	}
	svc := newTestService(users)

	_, unknownEmail := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	_, wrongCredential := svc.Authenticate(context.Background(), "a@example.com", "wrong")

	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", unknownEmail)
	}
	if !errors.Is(wrongCredential, ErrInvalidCredentials) {
		t.Errorf("wrong credential err = %v, want ErrInvalidCredentials", wrongCredential)
	}
	if unknownEmail.Error() != wrongCredential.Error() {
		t.Error("unknown-email and wrong-credential errors are distinguishable")
	}
}

func TestAuthenticate_UnknownEmailBurnsCompare(t *testing.T) {
	u := storedUser(t, "a@example.com", "right-credential")
	users := &MockRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email == u.Email {
				return u, nil
			}
			return nil, ErrNotFound
		},
	}
	svc := newTestService(users)

	start := time.Now()
	svc.Authenticate(context.Background(), "a@example.com", "wrong")
	mismatch := time.Since(start)

	start = time.Now()
	svc.Authenticate(context.Background(), "nobody@example.com", "wrong")
	unknown := time.Since(start)

	// Both paths pay a bcrypt comparison, so the unknown-email path must
	// not be orders of magnitude faster than the mismatch path. The wide
	// margin keeps scheduler noise from flaking the test.
	if unknown < mismatch/10 {
		t.Errorf("unknown email took %v vs mismatch %v; missing comparison burn", unknown, mismatch)
	}
}

func TestAuthenticate_EmptyInputsJustFail(t *testing.T) {
	svc := newTestService(&MockRepository{})

	if _, err := svc.Authenticate(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticate_SnapshotIsolation(t *testing.T) {
	u := storedUser(t, "a@example.com", "pw")
	users := &MockRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			copied := *u
			copied.LinkedAccountIDs = append([]string(nil), u.LinkedAccountIDs...)
			copied.LinkedTransactionIDs = append([]string(nil), u.LinkedTransactionIDs...)
			return &copied, nil
		},
	}
	accounts := &MockAccountRepo{
		ListByIDsFunc: func(ctx context.Context, ids []string) ([]account.Account, error) {
			return []account.Account{{ID: "a1", OwnerUserID: "u1"}}, nil
		},
	}
	transactions := &MockTransactionRepo{
		ListByIDsFunc: func(ctx context.Context, ids []string) ([]transaction.Transaction, error) {
			return []transaction.Transaction{{ID: "t1", AccountID: "a1"}}, nil
		},
	}

	svc := NewService(users, accounts, transactions, &MockBillRepo{})
	sess, err := svc.Authenticate(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}

	// Mutating the stored record after login must not show in the session.
	u.LinkedAccountIDs = append(u.LinkedAccountIDs, "a99")
	if sess.Links.HasAccount("a99") {
		t.Error("session observed a store mutation made after login")
	}
}
