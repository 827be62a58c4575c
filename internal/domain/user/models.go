package user

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers both unknown email and credential
	// mismatch; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already taken")
)

// User is a registered profile. LinkedAccountIDs and LinkedTransactionIDs
// record which provider records the user has linked to their profile; they
// are mutated only through the linking flow.
type User struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	CredentialHash       string    `json:"credential_hash"`
	LinkedAccountIDs     []string  `json:"linkedAccountIDs"`
	LinkedTransactionIDs []string  `json:"linkedTransactionIDs"`
	CreatedAt            time.Time `json:"createdAt"`
}

// CreateParams contains parameters for creating a new user.
type CreateParams struct {
	ID             string
	Email          string
	CredentialHash string
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.ID == "" {
		return errors.New("user ID is required")
	}
	if p.CredentialHash == "" {
		return errors.New("credential hash is required")
	}
	return nil
}
