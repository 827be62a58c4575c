package bill

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Item represents one line of an itemized hospital bill. Bills are associated
// to a user directly, independent of accounts and transactions.
type Item struct {
	Service     string          `json:"service"`
	Cost        decimal.Decimal `json:"cost"`
	OwnerUserID string          `json:"user_id"`
}

// Validate checks the fields a well-formed stored bill item must carry.
func (i Item) Validate() error {
	if i.Service == "" {
		return errors.New("bill service is required")
	}
	if i.OwnerUserID == "" {
		return errors.New("bill owner user ID is required")
	}
	return nil
}
