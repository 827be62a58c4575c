package account

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNotFound     = errors.New("account not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Account represents a bank account as issued by the data provider. Accounts
// are immutable in this system's scope: the provider is the source of truth
// and OwnerUserID never changes after issue.
type Account struct {
	ID          string          `json:"account_id"`
	OwnerUserID string          `json:"user_id"`
	Name        string          `json:"name"`
	Mask        string          `json:"mask"`
	Balance     decimal.Decimal `json:"balance"`
}

// Validate checks the fields a well-formed stored account must carry.
func (a Account) Validate() error {
	if a.ID == "" {
		return errors.New("account ID is required")
	}
	if a.OwnerUserID == "" {
		return errors.New("account owner user ID is required")
	}
	if a.Name == "" {
		return errors.New("account name is required")
	}
	return nil
}
