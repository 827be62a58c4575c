package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNotFound = errors.New("transaction not found")
)

// Transaction represents a single bank transaction. Transactions belong to
// exactly one account and are immutable once issued by the provider.
type Transaction struct {
	ID             string          `json:"transaction_id"`
	AccountID      string          `json:"account_id"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	MerchantName   string          `json:"merchant_name"`
	Category       string          `json:"category"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	Pending        bool            `json:"pending"`
	Description    string          `json:"description"`
}

// Validate checks the fields a well-formed stored transaction must carry.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("transaction ID is required")
	}
	if t.AccountID == "" {
		return errors.New("transaction account ID is required")
	}
	if t.Date.IsZero() {
		return errors.New("transaction date is required")
	}
	return nil
}
