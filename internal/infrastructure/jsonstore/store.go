// Package jsonstore implements the resource store as one JSON file per
// collection with whole-collection read/replace semantics. Records are
// validated and indexed by ID at load time; the store assumes at most one
// active session touches the files.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"medisave/internal/domain/account"
	"medisave/internal/domain/bill"
	"medisave/internal/domain/transaction"
	"medisave/internal/domain/user"
)

const (
	usersFile        = "users.json"
	accountsFile     = "accounts.json"
	transactionsFile = "transactions.json"
	billsFile        = "bills.json"
)

// Store holds the loaded collections and their ID indexes.
type Store struct {
	dir string

	mu           sync.Mutex
	users        []user.User
	accounts     []account.Account
	transactions []transaction.Transaction
	bills        []bill.Item

	userByID        map[string]int
	accountByID     map[string]int
	transactionByID map[string]int
}

// Open loads the collections from dir, creating the directory and empty
// collection files when absent, and validates referential integrity.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{dir: dir}

	if err := loadCollection(s.path(usersFile), &s.users); err != nil {
		return nil, err
	}
	if err := loadCollection(s.path(accountsFile), &s.accounts); err != nil {
		return nil, err
	}
	if err := loadCollection(s.path(transactionsFile), &s.transactions); err != nil {
		return nil, err
	}
	if err := loadCollection(s.path(billsFile), &s.bills); err != nil {
		return nil, err
	}

	if err := s.reindex(); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// reindex rebuilds the ID indexes, rejecting duplicate IDs.
func (s *Store) reindex() error {
	s.userByID = make(map[string]int, len(s.users))
	for i, u := range s.users {
		if _, dup := s.userByID[u.ID]; dup {
			return fmt.Errorf("%s: duplicate user ID %q", usersFile, u.ID)
		}
		s.userByID[u.ID] = i
	}

	s.accountByID = make(map[string]int, len(s.accounts))
	for i, a := range s.accounts {
		if _, dup := s.accountByID[a.ID]; dup {
			return fmt.Errorf("%s: duplicate account ID %q", accountsFile, a.ID)
		}
		s.accountByID[a.ID] = i
	}

	s.transactionByID = make(map[string]int, len(s.transactions))
	for i, t := range s.transactions {
		if _, dup := s.transactionByID[t.ID]; dup {
			return fmt.Errorf("%s: duplicate transaction ID %q", transactionsFile, t.ID)
		}
		s.transactionByID[t.ID] = i
	}
	return nil
}

// validate checks record shape and foreign keys across the collections.
func (s *Store) validate() error {
	for _, a := range s.accounts {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%s: account %q: %w", accountsFile, a.ID, err)
		}
		if _, ok := s.userByID[a.OwnerUserID]; !ok {
			return fmt.Errorf("%s: account %q references unknown user %q", accountsFile, a.ID, a.OwnerUserID)
		}
	}

	for _, t := range s.transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%s: transaction %q: %w", transactionsFile, t.ID, err)
		}
		if _, ok := s.accountByID[t.AccountID]; !ok {
			return fmt.Errorf("%s: transaction %q references unknown account %q", transactionsFile, t.ID, t.AccountID)
		}
	}

	for i, b := range s.bills {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%s: record %d: %w", billsFile, i, err)
		}
		if _, ok := s.userByID[b.OwnerUserID]; !ok {
			return fmt.Errorf("%s: record %d references unknown user %q", billsFile, i, b.OwnerUserID)
		}
	}

	for _, u := range s.users {
		if err := s.validateLinks(u); err != nil {
			return fmt.Errorf("%s: user %q: %w", usersFile, u.ID, err)
		}
	}
	return nil
}

// validateLinks enforces the linkage invariants: no duplicate IDs, every
// linked account owned by the user, every linked transaction on an account
// owned by the user (whether or not that account is itself linked).
func (s *Store) validateLinks(u user.User) error {
	seen := make(map[string]struct{}, len(u.LinkedAccountIDs))
	for _, id := range u.LinkedAccountIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate linked account ID %q", id)
		}
		seen[id] = struct{}{}

		i, ok := s.accountByID[id]
		if !ok {
			return fmt.Errorf("linked account %q: %w", id, account.ErrNotFound)
		}
		if s.accounts[i].OwnerUserID != u.ID {
			return fmt.Errorf("linked account %q is owned by another user", id)
		}
	}

	seenTx := make(map[string]struct{}, len(u.LinkedTransactionIDs))
	for _, id := range u.LinkedTransactionIDs {
		if _, dup := seenTx[id]; dup {
			return fmt.Errorf("duplicate linked transaction ID %q", id)
		}
		seenTx[id] = struct{}{}

		i, ok := s.transactionByID[id]
		if !ok {
			return fmt.Errorf("linked transaction %q: %w", id, transaction.ErrNotFound)
		}
		ai := s.accountByID[s.transactions[i].AccountID]
		if s.accounts[ai].OwnerUserID != u.ID {
			return fmt.Errorf("linked transaction %q is on another user's account", id)
		}
	}
	return nil
}

// loadCollection reads a whole collection file, seeding an empty one when
// the file does not exist yet.
func loadCollection(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return os.WriteFile(path, []byte("[]\n"), 0o644)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeCollection replaces a whole collection file, going through a temp
// file in the same directory so a crash cannot leave a half-written table.
func writeCollection(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
