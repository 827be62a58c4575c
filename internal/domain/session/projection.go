package session

import (
	"github.com/shopspring/decimal"

	"medisave/internal/domain/account"
	"medisave/internal/domain/bill"
	"medisave/internal/domain/transaction"
)

// NoneLabel is the sentinel line rendered when a list is empty.
const NoneLabel = "(none found)"

// Line pairs a display label with a money amount.
type Line struct {
	Label    string
	Amount   decimal.Decimal
	Sentinel bool
}

// BillLines projects bill items into display lines, preserving input order.
// An empty input yields a single sentinel line rather than an empty slice.
func BillLines(bills []bill.Item) []Line {
	if len(bills) == 0 {
		return []Line{{Label: NoneLabel, Sentinel: true}}
	}
	lines := make([]Line, 0, len(bills))
	for _, b := range bills {
		lines = append(lines, Line{Label: b.Service, Amount: b.Cost})
	}
	return lines
}

// AccountLines projects accounts into display lines, preserving input order.
func AccountLines(accounts []account.Account) []Line {
	if len(accounts) == 0 {
		return []Line{{Label: NoneLabel, Sentinel: true}}
	}
	lines := make([]Line, 0, len(accounts))
	for _, a := range accounts {
		lines = append(lines, Line{Label: a.Name + " (" + a.Mask + ")", Amount: a.Balance})
	}
	return lines
}

// TransactionLines projects transactions into display lines, preserving
// input order.
func TransactionLines(transactions []transaction.Transaction) []Line {
	if len(transactions) == 0 {
		return []Line{{Label: NoneLabel, Sentinel: true}}
	}
	lines := make([]Line, 0, len(transactions))
	for _, t := range transactions {
		lines = append(lines, Line{
			Label:  t.MerchantName + " (" + t.Date.Format("2006-01-02") + ")",
			Amount: t.Amount,
		})
	}
	return lines
}
