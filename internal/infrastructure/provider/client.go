// Package provider implements the client for the external bank-data
// provider: a token handshake followed by bearer-authenticated listing of
// accounts, transactions, and hospital bills scoped to the user.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const (
	authPath         = "/auth"
	accountsPath     = "/accounts"
	transactionsPath = "/transactions"
	billsPath        = "/bills"
)

// Client errors. ErrTimeout is distinct so callers can tell a slow provider
// from a broken one.
var (
	ErrProvider = errors.New("provider request failed")
	ErrTimeout  = errors.New("provider request timed out")
)

// ClientIface defines the methods required from the provider client.
type ClientIface interface {
	Authenticate(ctx context.Context, userID string) (string, error)
	ListAccounts(ctx context.Context, token string) (*AccountsResponse, error)
	ListTransactions(ctx context.Context, token string) (*TransactionsResponse, error)
	ListBills(ctx context.Context, token string) (*BillsResponse, error)
}

// Client handles communication with the provider API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements ClientIface
var _ ClientIface = (*Client)(nil)

// NewClient creates a new provider client. The timeout bounds every call in
// addition to any caller-supplied context deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// AuthResponse is the token handshake result.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

// AccountsResponse represents the API response for account data.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// Account represents an account as returned by the provider.
type Account struct {
	AccountID string          `json:"account_id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Mask      string          `json:"mask"`
	Balance   decimal.Decimal `json:"balance"`
}

// TransactionsResponse represents the API response for transaction data.
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// Transaction represents a transaction as returned by the provider.
type Transaction struct {
	TransactionID  string          `json:"transaction_id"`
	AccountID      string          `json:"account_id"`
	DateString     string          `json:"date"` // "2006-01-02" format
	Amount         decimal.Decimal `json:"amount"`
	MerchantName   string          `json:"merchant_name"`
	Category       string          `json:"category"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	Pending        bool            `json:"pending"`
	Description    string          `json:"description"`
}

// GetDate parses and returns the transaction date.
func (t *Transaction) GetDate() (time.Time, error) {
	if t.DateString == "" {
		return time.Time{}, fmt.Errorf("transaction %s has no date", t.TransactionID)
	}
	parsed, err := time.Parse("2006-01-02", t.DateString)
	if err != nil {
		// Some provider environments return full timestamps.
		parsed, err = time.Parse(time.RFC3339, t.DateString)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date '%s': %w", t.DateString, err)
		}
	}
	return parsed, nil
}

// BillsResponse represents the API response for hospital bill data.
type BillsResponse struct {
	Bills []Bill `json:"bills"`
}

// Bill represents an itemized hospital bill line from the provider.
type Bill struct {
	Service string          `json:"service"`
	Cost    decimal.Decimal `json:"cost"`
	UserID  string          `json:"user_id"`
}

// Authenticate exchanges the user ID for an access token.
func (c *Client) Authenticate(ctx context.Context, userID string) (string, error) {
	payload, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return "", fmt.Errorf("%w: encode auth request: %v", ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+authPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var auth AuthResponse
	if err := c.do(req, &auth); err != nil {
		return "", err
	}
	if auth.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrProvider)
	}
	return auth.AccessToken, nil
}

// ListAccounts fetches the accounts visible to the token's user.
func (c *Client) ListAccounts(ctx context.Context, token string) (*AccountsResponse, error) {
	var out AccountsResponse
	if err := c.get(ctx, accountsPath, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions fetches the transactions visible to the token's user.
func (c *Client) ListTransactions(ctx context.Context, token string) (*TransactionsResponse, error) {
	var out TransactionsResponse
	if err := c.get(ctx, transactionsPath, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBills fetches the hospital bills visible to the token's user.
func (c *Client) ListBills(ctx context.Context, token string) (*BillsResponse, error) {
	var out BillsResponse
	if err := c.get(ctx, billsPath, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", ErrProvider, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrProvider, err)
	}
	return nil
}

func wrapTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProvider, err)
}
